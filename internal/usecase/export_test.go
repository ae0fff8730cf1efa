package usecase

// MaxTotalSlots re-exports maxTotalSlots for the external test package.
const MaxTotalSlots = maxTotalSlots

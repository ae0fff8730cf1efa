package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Operators() OperatorRepository
	Programs() ProgramRepository
	Cards() CardRepository
	Redemptions() RedemptionRepository
}

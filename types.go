package main

// DriveStepRequest is one animation frame of the driving game.
type DriveStepRequest struct {
	X float64 `form:"x" json:"x"`
	Z float64 `form:"z" json:"z"`
}

// PuzzlePlaceRequest drops a piece on a board slot.
type PuzzlePlaceRequest struct {
	Piece *int `form:"piece" json:"piece" binding:"required,min=0"`
	Slot  *int `form:"slot" json:"slot" binding:"required,min=0"`
}

// ScratchRequest lists the scratch card cells cleared since the last call.
type ScratchRequest struct {
	Cells []int `form:"cells" json:"cells" binding:"required,max=4096"`
}

// QuizAnswerRequest is one quiz attempt.
type QuizAnswerRequest struct {
	Answer string `form:"answer" json:"answer" binding:"max=200"`
	Slider int    `form:"slider" json:"slider"`
}

// ProposalPullRequest reports how far the pull control was dragged.
type ProposalPullRequest struct {
	Fraction float64 `form:"fraction" json:"fraction"`
}

// ResetRequest must carry an explicit confirmation.
type ResetRequest struct {
	Confirm bool `form:"confirm" json:"confirm"`
}

package dto

// PromotionCandidate is one student's standing in a promotion review.
type PromotionCandidate struct {
	StudentID   uint   `json:"student_id"`
	Name        string `json:"name"`
	RollNo      string `json:"roll_no"`
	FailedCount int    `json:"failed_count"`
	IsSelected  bool   `json:"is_selected"`
}

// ConfirmPromotionRequest commits semester advancement for selected students.
type ConfirmPromotionRequest struct {
	CurrentSemesterID uint   `json:"current_semester_id" validate:"required,gt=0"`
	NextSemesterID    uint   `json:"next_semester_id" validate:"required,gt=0"`
	StudentIDs        []uint `json:"student_ids" validate:"required"`
}

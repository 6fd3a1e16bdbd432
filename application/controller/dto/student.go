package dto

type FetchStudentDTO struct {
	StudentID string `json:"studentID" validate:"required,student_id"`
}

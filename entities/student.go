package entities

import "fmt"

// This represents a student enrolled in the campus registry. Records are
// loaded once at startup and never mutated during a verification session.
type StudentRecord struct {
	StudentID  string `bson:"studentID" json:"studentID" validate:"len=7,numeric"`
	FirstName  string `bson:"firstName" json:"firstName"`
	LastName   string `bson:"lastName" json:"lastName"`
	Department string `bson:"department" json:"department"`
	Year       int    `bson:"year" json:"year"`
	PhotoURL   string `bson:"photoURL" json:"photoURL"`
	Email      string `bson:"email" json:"email,omitempty"`
}

func (s *StudentRecord) FullName() string {
	return fmt.Sprintf("%s %s", s.FirstName, s.LastName)
}

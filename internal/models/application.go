package models

// ApplicationStatus is the lifecycle state of a writer application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// WriterApplicationModel is a request by a regular user to become a writer.
// Approval promotes the applicant's role from user to writer.
type WriterApplicationModel struct {
	Base
	UserID     string            `json:"user_id"    gorm:"index;not null"`
	UserName   string            `json:"user_name"`
	UserEmail  string            `json:"user_email"`
	Motivation string            `json:"motivation" gorm:"type:text;not null"`
	Experience string            `json:"experience" gorm:"type:text;not null"`
	Topics     string            `json:"topics"     gorm:"type:text;not null"`
	Status     ApplicationStatus `json:"status"     gorm:"type:varchar(16);default:'pending';index"`
}

func (WriterApplicationModel) TableName() string { return "writer_applications" }

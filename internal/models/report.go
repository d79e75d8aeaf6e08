package models

// ReportStatus is the lifecycle state of an abuse report.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportResolved ReportStatus = "resolved"
)

// ReportModel is an abuse report against a chat message. The message text
// and the reported user's identity are snapshotted at submission time so
// the report survives deletion of the message.
type ReportModel struct {
	Base
	MessageID         string       `json:"message_id"          gorm:"index;not null"`
	MessageContent    string       `json:"message_content"     gorm:"type:text"`
	ReportedUserID    string       `json:"reported_user_id"    gorm:"index;not null"`
	ReportedUserName  string       `json:"reported_user_name"`
	ReportedUserEmail string       `json:"reported_user_email"`
	ReporterUserID    string       `json:"reporter_user_id"    gorm:"index;not null"`
	ReporterUserName  string       `json:"reporter_user_name"`
	Reason            string       `json:"reason"              gorm:"type:text;not null"`
	Status            ReportStatus `json:"status"              gorm:"type:varchar(16);default:'pending';index"`
}

func (ReportModel) TableName() string { return "reports" }

package model

// AdminStats summarizes the portal for the admin dashboard.
type AdminStats struct {
	TotalUsers       int64 `json:"total_users"`
	PendingApprovals int64 `json:"pending_approvals"`
	Doctors          int64 `json:"doctors"`
	Labs             int64 `json:"labs"`
	Patients         int64 `json:"patients"`
}

// LabStats summarizes a lab's report workload.
type LabStats struct {
	TotalReports     int64 `json:"total_reports"`
	PendingReports   int64 `json:"pending_reports"`
	CompletedReports int64 `json:"completed_reports"`
	UrgentReports    int64 `json:"urgent_reports"`
	TotalPatients    int64 `json:"total_patients"`
}

// DoctorStats summarizes a doctor's patients and reports.
type DoctorStats struct {
	TotalPatients  int64 `json:"total_patients"`
	TotalReports   int64 `json:"total_reports"`
	PendingReports int64 `json:"pending_reports"`
}

// PatientStats summarizes a patient's own reports.
type PatientStats struct {
	TotalReports     int64 `json:"total_reports"`
	PendingReports   int64 `json:"pending_reports"`
	CompletedReports int64 `json:"completed_reports"`
}

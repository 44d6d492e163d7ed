package dto

// StudentProgressRow summarises one profile's curriculum and attendance
// standing for the admin progress view.
type StudentProgressRow struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Status            string  `json:"status"`
	CohortID          *string `json:"cohortId"`
	StudentID         *string `json:"studentId"`
	CompletedChapters int     `json:"completedChapters"`
	UnlockedChapters  int     `json:"unlockedChapters"`
	TotalChapters     int     `json:"totalChapters"`
	LecturesAttended  int     `json:"lecturesAttended"`
	TotalLiveLectures int     `json:"totalLiveLectures"`
	AttendancePercent int     `json:"attendancePercent"`
	OverallProgress   int     `json:"overallProgress"`
}

// ProgressExportResult points at a generated export artifact.
type ProgressExportResult struct {
	FileName    string `json:"file_name"`
	Format      string `json:"format"`
	DownloadURL string `json:"download_url"`
	ExpiresAt   string `json:"expires_at"`
}

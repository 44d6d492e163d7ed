package service

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/dto"
	"github.com/btc-academy/academy-api/internal/models"
	"github.com/btc-academy/academy-api/internal/repository"
	"github.com/btc-academy/academy-api/pkg/export"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
)

// progressProfileLimit caps the admin progress listing.
const progressProfileLimit = 200

type progressProfileRepository interface {
	List(ctx context.Context, limit int) ([]models.Profile, error)
}

type progressStudentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
}

type progressChapterRepository interface {
	CountsByStudent(ctx context.Context) (map[string]repository.ProgressCounts, error)
}

type progressEventRepository interface {
	CountLiveClasses(ctx context.Context) (int, error)
	AttendanceByStudent(ctx context.Context) (map[string]int, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type exportSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error)
}

// ProgressService composes the admin per-student progress view and its
// file exports. Overall progress is a fixed 50/50 weighting between
// curriculum completion and live-session attendance.
type ProgressService struct {
	profiles progressProfileRepository
	students progressStudentRepository
	chapters progressChapterRepository
	events   progressEventRepository
	storage  exportStorage
	signer   exportSigner
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
	now      func() time.Time
	total    int
}

// ProgressServiceParams groups constructor dependencies.
type ProgressServiceParams struct {
	Profiles      progressProfileRepository
	Students      progressStudentRepository
	Chapters      progressChapterRepository
	Events        progressEventRepository
	Storage       exportStorage
	Signer        exportSigner
	Logger        *zap.Logger
	TotalChapters int
}

// NewProgressService constructs a ProgressService.
func NewProgressService(params ProgressServiceParams) *ProgressService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	total := params.TotalChapters
	if total <= 0 {
		total = models.TotalChapters
	}
	return &ProgressService{
		profiles: params.Profiles,
		students: params.Students,
		chapters: params.Chapters,
		events:   params.Events,
		storage:  params.Storage,
		signer:   params.Signer,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		now:      time.Now,
		total:    total,
	}
}

// List returns one progress row per profile.
func (s *ProgressService) List(ctx context.Context) ([]dto.StudentProgressRow, error) {
	profiles, err := s.profiles.List(ctx, progressProfileLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list profiles")
	}
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	chapterCounts, err := s.chapters.CountsByStudent(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count chapter progress")
	}
	attendance, err := s.events.AttendanceByStudent(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count attendance")
	}
	totalLive, err := s.events.CountLiveClasses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count live classes")
	}

	byProfile := make(map[string]models.Student, len(students))
	for _, student := range students {
		byProfile[student.ProfileID] = student
	}

	rows := make([]dto.StudentProgressRow, 0, len(profiles))
	for _, profile := range profiles {
		counts := chapterCounts[profile.ID]
		attended := attendance[profile.ID]

		row := dto.StudentProgressRow{
			ID:                profile.ID,
			Name:              profile.Name,
			Email:             profile.Email,
			Status:            profile.Status,
			CompletedChapters: counts.Completed,
			UnlockedChapters:  counts.Unlocked,
			TotalChapters:     s.total - 1,
			LecturesAttended:  attended,
			TotalLiveLectures: totalLive,
		}
		if row.Name == "" {
			row.Name = "Unnamed"
		}
		if student, ok := byProfile[profile.ID]; ok {
			id := student.ID
			row.StudentID = &id
			row.CohortID = student.CohortID
		}

		row.AttendancePercent = attendancePercent(attended, totalLive)
		row.OverallProgress = OverallProgress(counts.Completed, s.total-1, row.AttendancePercent)
		rows = append(rows, row)
	}
	return rows, nil
}

// attendancePercent returns round(attended/total*100) clamped to [0,100];
// a zero denominator reads as zero.
func attendancePercent(attended, total int) int {
	if total <= 0 {
		return 0
	}
	percent := int(math.Round(float64(attended) / float64(total) * 100))
	return clamp(percent, 0, 100)
}

// OverallProgress is the fixed 50/50 weighting between chapter
// completion and attendance: round(completed/chapters*50 + attendance*0.5).
func OverallProgress(completed, chapters, attendancePercent int) int {
	if chapters <= 0 {
		chapters = models.TotalChapters - 1
	}
	completionTerm := float64(clamp(completed, 0, chapters)) / float64(chapters) * 50
	attendanceTerm := float64(clamp(attendancePercent, 0, 100)) * 0.5
	return int(math.Round(completionTerm + attendanceTerm))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var progressExportHeaders = []string{"Name", "Email", "Status", "Completed", "Unlocked", "Attendance %", "Overall %"}

// Export renders the progress listing as CSV or PDF, stores the file,
// and returns a signed download reference.
func (s *ProgressService) Export(ctx context.Context, format string) (*dto.ProgressExportResult, error) {
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exports are not enabled")
	}

	rows, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: progressExportHeaders}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Name":         row.Name,
			"Email":        row.Email,
			"Status":       row.Status,
			"Completed":    strconv.Itoa(row.CompletedChapters),
			"Unlocked":     strconv.Itoa(row.UnlockedChapters),
			"Attendance %": strconv.Itoa(row.AttendancePercent),
			"Overall %":    strconv.Itoa(row.OverallProgress),
		})
	}

	var payload []byte
	switch format {
	case "csv":
		payload, err = s.csv.Render(dataset)
	case "pdf":
		payload, err = s.pdf.Render(dataset, "Student Progress")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	fileName := fmt.Sprintf("student-progress-%s.%s", s.now().UTC().Format("20060102-150405"), format)
	if _, err := s.storage.Save(fileName, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(fileName, fileName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export url")
	}

	return &dto.ProgressExportResult{
		FileName:    fileName,
		Format:      format,
		DownloadURL: "/api/v1/admin/students/progress/download?token=" + token,
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// Download validates a signed token and opens the referenced export file.
func (s *ProgressService) Download(token string) (*os.File, string, error) {
	if s.storage == nil || s.signer == nil {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "exports are not enabled")
	}
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "invalid or expired token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return file, relPath, nil
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sgeduc/sge-backend/internal/config"
	"github.com/sgeduc/sge-backend/internal/database"
	"github.com/sgeduc/sge-backend/internal/interval"
	"github.com/sgeduc/sge-backend/internal/logger"
	"github.com/sgeduc/sge-backend/internal/model"
	"github.com/sgeduc/sge-backend/internal/repository"
	"github.com/sgeduc/sge-backend/internal/service"
)

// Seeds one demo school: a subject catalog with a prerequisite chain, two
// cohorts with students, and a week of schedule slots.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	subjectRepo := repository.NewSubjectRepository(pool)
	cohortRepo := repository.NewCohortRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)

	subjectService := service.NewSubjectService(subjectRepo, log)
	cohortService := service.NewCohortService(cohortRepo, log)
	scheduleService := service.NewScheduleService(scheduleRepo, cohortRepo, subjectRepo, rdb, log)

	schoolID := uuid.New()
	fmt.Printf("=== Seeding demo school %s ===\n", schoolID)

	// ─── Subjects with a prerequisite chain ───────────────────────────
	type subjectSeed struct {
		name    string
		code    string
		credits int
		grade   string
		prereq  string // code of the prerequisite, if any
	}
	seeds := []subjectSeed{
		{"Matemática I", "MAT1", 4, "1", ""},
		{"Matemática II", "MAT2", 4, "2", "MAT1"},
		{"Física I", "FIS1", 3, "2", "MAT1"},
		{"Física II", "FIS2", 3, "3", "FIS1"},
		{"Língua Portuguesa", "POR1", 4, "1", ""},
		{"História do Brasil", "HIS1", 2, "1", ""},
	}

	byCode := make(map[string]uuid.UUID)
	for _, s := range seeds {
		sub := &model.Subject{
			SchoolID:    schoolID,
			Name:        s.name,
			Code:        s.code,
			CreditHours: s.credits,
			GradeLevel:  s.grade,
			Mandatory:   true,
		}
		if s.prereq != "" {
			sub.Prerequisites = []uuid.UUID{byCode[s.prereq]}
		}
		if err := subjectService.Create(ctx, sub); err != nil {
			log.Fatal().Err(err).Str("code", s.code).Msg("Failed to seed subject")
		}
		byCode[s.code] = sub.ID
		fmt.Printf("Subject %-5s -> %s\n", s.code, sub.ID)
	}

	// ─── Cohorts with enrollments ─────────────────────────────────────
	year := time.Now().Year()
	cohorts := []*model.Cohort{
		{SchoolID: schoolID, Name: "1A", AcademicYear: year, GradeLevel: "1", Shift: model.ShiftMorning, Capacity: 30},
		{SchoolID: schoolID, Name: "2B", AcademicYear: year, GradeLevel: "2", Shift: model.ShiftAfternoon, Capacity: 25},
	}
	for _, c := range cohorts {
		if err := cohortService.Create(ctx, c); err != nil {
			log.Fatal().Err(err).Str("name", c.Name).Msg("Failed to seed cohort")
		}
		for i := 0; i < 10; i++ {
			if _, err := cohortService.Enroll(ctx, c.ID, uuid.New()); err != nil {
				log.Fatal().Err(err).Str("cohort", c.Name).Msg("Failed to seed enrollment")
			}
		}
		fmt.Printf("Cohort %-3s -> %s (10 students)\n", c.Name, c.ID)
	}

	// ─── Schedule slots ───────────────────────────────────────────────
	teacherMat := uuid.New()
	teacherPor := uuid.New()

	type slotSeed struct {
		cohort  *model.Cohort
		subject string
		teacher uuid.UUID
		room    string
		day     interval.Weekday
		start   string
		end     string
	}
	slotSeeds := []slotSeed{
		{cohorts[0], "MAT1", teacherMat, "101", interval.Monday, "07:30", "09:10"},
		{cohorts[0], "POR1", teacherPor, "101", interval.Monday, "09:30", "11:10"},
		{cohorts[0], "HIS1", teacherPor, "102", interval.Wednesday, "07:30", "09:10"},
		{cohorts[1], "MAT2", teacherMat, "201", interval.Tuesday, "13:30", "15:10"},
		{cohorts[1], "FIS1", teacherMat, "201", interval.Thursday, "13:30", "15:10"},
	}
	for _, s := range slotSeeds {
		start, _ := interval.ParseClock(s.start)
		end, _ := interval.ParseClock(s.end)
		slot := &model.ScheduleSlot{
			CohortID:     s.cohort.ID,
			SubjectID:    byCode[s.subject],
			TeacherID:    s.teacher,
			Room:         s.room,
			DayOfWeek:    s.day,
			StartMinute:  start,
			EndMinute:    end,
			AcademicYear: year,
			Term:         1,
		}
		if err := scheduleService.Propose(ctx, slot); err != nil {
			log.Fatal().Err(err).Str("subject", s.subject).Msg("Failed to seed slot")
		}
		fmt.Printf("Slot %s %-4s day=%d %s-%s -> %s\n", s.cohort.Name, s.subject, s.day, s.start, s.end, slot.ID)
	}

	// Sanity: the demo data must survive a round trip.
	var count int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM schedule_slots WHERE school_id = $1", schoolID,
	).Scan(&count); err != nil && err != pgx.ErrNoRows {
		log.Fatal().Err(err).Msg("Failed to verify seed")
	}
	fmt.Printf("=== Done: %d slots seeded ===\n", count)
}

package background

import (
	"context"
	"log"
	"sync"
	"time"

	"traindesk/internal/jobs"
	"traindesk/internal/repositories"
	"traindesk/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the periodic maintenance jobs
type JobScheduler struct {
	scheduler  gocron.Scheduler
	expirySvc  *jobs.LicenseExpiryService
	courseSvc  services.CourseService
	reconRepo  repositories.ReconciliationRepository
	scheduled  map[string]gocron.Job
	mu         sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(expirySvc *jobs.LicenseExpiryService, courseSvc services.CourseService,
	reconRepo repositories.ReconciliationRepository) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		expirySvc: expirySvc,
		courseSvc: courseSvc,
		reconRepo: reconRepo,
		scheduled: make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	expiryJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.sweepLicenses, context.Background()),
		gocron.WithName("license-expiry-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create license expiry job: %v", err)
	} else {
		js.track("license-expiry", expiryJob)
	}

	reconJob, err := js.scheduler.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(js.remindOpenReconciliations, context.Background()),
		gocron.WithName("reconciliation-reminder"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create reconciliation reminder job: %v", err)
	} else {
		js.track("reconciliation-reminder", reconJob)
	}

	catalogJob, err := js.scheduler.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(js.refreshCatalog, context.Background()),
		gocron.WithName("course-catalog-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create catalog refresh job: %v", err)
	} else {
		js.track("catalog-refresh", catalogJob)
	}
}

func (js *JobScheduler) track(name string, job gocron.Job) {
	js.mu.Lock()
	defer js.mu.Unlock()
	js.scheduled[name] = job
}

func (js *JobScheduler) sweepLicenses(ctx context.Context) {
	if err := js.expirySvc.SweepAllSchools(ctx); err != nil {
		log.Printf("License expiry sweep failed: %v", err)
	}
}

func (js *JobScheduler) remindOpenReconciliations(ctx context.Context) {
	count, err := js.reconRepo.CountOpen(ctx)
	if err != nil {
		log.Printf("Failed to count open reconciliations: %v", err)
		return
	}
	if count > 0 {
		log.Printf("WARNING: %d seat allocations are still waiting for manual reconciliation", count)
	}
}

func (js *JobScheduler) refreshCatalog(ctx context.Context) {
	if err := js.courseSvc.RefreshCache(ctx); err != nil {
		log.Printf("Course catalog refresh failed: %v", err)
	}
}

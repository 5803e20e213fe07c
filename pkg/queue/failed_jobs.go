package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"gorm.io/gorm"
)

// FailedJobRecord is the GORM model persisted to the database.
// Auto-migrated when UseDB is called at boot.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "bazaar_failed_jobs" }

// failedJobDB is the optional DB backend for persisting failed jobs.
// Set via UseDB(); nil means in-memory only.
var failedJobDB *gorm.DB

// UseDB configures the queue to persist failed jobs to the database.
// Call once at boot, after database.Connect():
//
//	queue.UseDB(database.DB)
func UseDB(db *gorm.DB) {
	failedJobDB = db
	db.AutoMigrate(&FailedJobRecord{})
}

// persistFailed writes a failed job record to the database (if configured)
// and also appends to the in-memory slice as a fallback.
func (m *Manager) persistFailed(job Job, typeName string, lastErr error, attempts int) {
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Job: job, Err: lastErr, FailedAt: time.Now(), Attempts: attempts,
	})
	m.mu.Unlock()

	if failedJobDB == nil {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error": "could not marshal: %v"}`, err))
	}

	record := FailedJobRecord{
		JobType:  typeName,
		Payload:  string(payload),
		Error:    lastErr.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	}

	if err := failedJobDB.Create(&record).Error; err != nil {
		// Non-fatal; the in-memory slice still has it.
		logger.Error("queue: failed to persist failed job", "type", typeName, "error", err)
	}
}

// ListFailed returns persisted failed jobs, newest first.
func ListFailed(limit int) ([]FailedJobRecord, error) {
	if failedJobDB == nil {
		return nil, fmt.Errorf("queue: failed job storage not configured")
	}
	var records []FailedJobRecord
	err := failedJobDB.Order("failed_at desc").Limit(limit).Find(&records).Error
	return records, err
}

// RetryFailed re-dispatches one failed job by record ID and removes the
// record. The job type is resolved from the registry when a worker pops it,
// so retrying does not require the type to be registered here.
func RetryFailed(id uint) error {
	if failedJobDB == nil {
		return fmt.Errorf("queue: failed job storage not configured")
	}

	var record FailedJobRecord
	if err := failedJobDB.First(&record, id).Error; err != nil {
		return fmt.Errorf("queue: failed job %d: %w", id, err)
	}

	env, err := json.Marshal(envelope{
		Type:    record.JobType,
		Payload: json.RawMessage(record.Payload),
	})
	if err != nil {
		return fmt.Errorf("queue: rebuild envelope: %w", err)
	}

	defaultManager.mu.RLock()
	d := defaultManager.driver
	defaultManager.mu.RUnlock()

	if err := d.Push(env); err != nil {
		return err
	}
	return failedJobDB.Delete(&record).Error
}

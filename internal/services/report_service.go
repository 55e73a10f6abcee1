package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

const reportBucket = "traindesk-reports"

// ReportService generates license usage exports for download.
type ReportService interface {
	LicenseUsageReport(ctx context.Context, companyID int64) (string, error)
}

type reportService struct {
	licenseSvc LicenseService
	storageSvc StorageService
}

// NewReportService creates a new ReportService instance
func NewReportService(licenseSvc LicenseService, storageSvc StorageService) ReportService {
	return &reportService{
		licenseSvc: licenseSvc,
		storageSvc: storageSvc,
	}
}

// LicenseUsageReport writes the company's current license usage to object
// storage as CSV and returns a time-limited download URL.
func (s *reportService) LicenseUsageReport(ctx context.Context, companyID int64) (string, error) {
	licenses, err := s.licenseSvc.ListForCompany(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("failed to load licenses for report: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"license_id", "name", "course_id", "allocation", "used", "available", "expiry", "expired"}); err != nil {
		return "", err
	}

	now := time.Now()
	for i := range licenses {
		lic := &licenses[i]
		expiry := ""
		if lic.Expiry > 0 {
			expiry = time.Unix(lic.Expiry, 0).UTC().Format(time.RFC3339)
		}
		row := []string{
			strconv.FormatInt(lic.ID, 10),
			lic.Name,
			strconv.FormatInt(lic.CourseID, 10),
			strconv.Itoa(lic.Allocation),
			strconv.Itoa(lic.Used),
			strconv.Itoa(lic.Available()),
			expiry,
			strconv.FormatBool(lic.Expired(now)),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	if err := s.storageSvc.EnsureBucketExists(ctx, reportBucket); err != nil {
		return "", fmt.Errorf("failed to prepare report bucket: %w", err)
	}

	objectName := fmt.Sprintf("license-usage/company-%d-%s.csv", companyID, now.UTC().Format("20060102-150405"))
	if err := s.storageSvc.UploadReport(ctx, reportBucket, objectName, &buf, int64(buf.Len()), "text/csv"); err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	url, err := s.storageSvc.GetPresignedURL(reportBucket, objectName, 1*time.Hour)
	if err != nil {
		return "", fmt.Errorf("failed to presign report url: %w", err)
	}
	return url, nil
}

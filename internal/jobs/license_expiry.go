package jobs

import (
	"context"
	"log"
	"time"

	"traindesk/internal/models"
	"traindesk/internal/services"
)

// LicenseExpiryService periodically surfaces licenses that administrators
// need to act on before assignments start failing.
type LicenseExpiryService struct {
	licenseSvc services.LicenseService
	schoolSvc  services.SchoolService
}

// LicenseAlert describes one license approaching or past its limits.
type LicenseAlert struct {
	SchoolID  int64
	LicenseID int64
	Name      string
	Available int
	Expiry    int64
	Expired   bool
}

func NewLicenseExpiryService(licenseSvc services.LicenseService, schoolSvc services.SchoolService) *LicenseExpiryService {
	return &LicenseExpiryService{
		licenseSvc: licenseSvc,
		schoolSvc:  schoolSvc,
	}
}

// CheckSchool returns alerts for licenses that are expired, expiring within
// two weeks, or out of seats.
func (s *LicenseExpiryService) CheckSchool(ctx context.Context, schoolID int64) ([]LicenseAlert, error) {
	licenses, err := s.licenseSvc.ListForCompany(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	soon := now.Add(14 * 24 * time.Hour)

	var alerts []LicenseAlert
	for i := range licenses {
		lic := &licenses[i]
		if s.needsAttention(lic, now, soon) {
			alerts = append(alerts, LicenseAlert{
				SchoolID:  schoolID,
				LicenseID: lic.ID,
				Name:      lic.Name,
				Available: lic.Available(),
				Expiry:    lic.Expiry,
				Expired:   lic.Expired(now),
			})
		}
	}
	return alerts, nil
}

func (s *LicenseExpiryService) needsAttention(lic *models.License, now, soon time.Time) bool {
	if lic.Expired(now) {
		return true
	}
	if lic.Available() == 0 {
		return true
	}
	return lic.Expiry > 0 && lic.Expiry < soon.Unix()
}

// SweepAllSchools checks every school and logs the alerts.
func (s *LicenseExpiryService) SweepAllSchools(ctx context.Context) error {
	schools, err := s.schoolSvc.List(ctx)
	if err != nil {
		return err
	}

	for _, school := range schools {
		alerts, err := s.CheckSchool(ctx, school.ID)
		if err != nil {
			log.Printf("License sweep failed for school %d: %v", school.ID, err)
			continue
		}
		for _, alert := range alerts {
			switch {
			case alert.Expired:
				log.Printf("License alert: %q (school %d) is expired", alert.Name, alert.SchoolID)
			case alert.Available == 0:
				log.Printf("License alert: %q (school %d) has no seats left", alert.Name, alert.SchoolID)
			default:
				log.Printf("License alert: %q (school %d) expires %s, %d seats left",
					alert.Name, alert.SchoolID, time.Unix(alert.Expiry, 0).Format("2006-01-02"), alert.Available)
			}
		}
	}
	return nil
}

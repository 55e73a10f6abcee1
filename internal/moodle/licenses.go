package moodle

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"traindesk/internal/models"
)

// licenseInfo is the wire shape of one IOMAD license record.
type licenseInfo struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Allocation int    `json:"allocation"`
	Used       int    `json:"used"`
	ExpiryDate int64  `json:"expirydate"`
	CompanyID  int64  `json:"companyid"`
	CourseID   int64  `json:"courseid"`
}

// GetLicenses lists the license records visible to a company.
func (c *Client) GetLicenses(ctx context.Context, companyID int64) ([]models.License, error) {
	params := url.Values{}
	params.Set("companyid", strconv.FormatInt(companyID, 10))

	var infos []licenseInfo
	if err := c.call(ctx, "block_iomad_company_admin_get_license_info", params, &infos); err != nil {
		return nil, err
	}

	licenses := make([]models.License, 0, len(infos))
	for _, info := range infos {
		lic := models.License{
			ID:         info.ID,
			Name:       info.Name,
			CompanyID:  info.CompanyID,
			CourseID:   info.CourseID,
			Allocation: info.Allocation,
			Used:       info.Used,
			Expiry:     info.ExpiryDate,
		}
		if lic.CompanyID == 0 {
			lic.CompanyID = companyID
		}
		// Older registries only encode scope in the name.
		if lic.CourseID == 0 {
			if _, courseID, err := models.ParseLicenseScope(lic.Name); err == nil {
				lic.CourseID = courseID
			}
		}
		licenses = append(licenses, lic)
	}
	return licenses, nil
}

// CreateLicense creates a license record scoping a course to a company and
// returns the new license id.
func (c *Client) CreateLicense(ctx context.Context, license *models.License) (int64, error) {
	params := url.Values{}
	params.Set("licenses[0][name]", license.Name)
	params.Set("licenses[0][companyid]", strconv.FormatInt(license.CompanyID, 10))
	params.Set("licenses[0][allocation]", strconv.Itoa(license.Allocation))
	params.Set("licenses[0][expirydate]", strconv.FormatInt(license.Expiry, 10))
	params.Set("licenses[0][courses][0][courseid]", strconv.FormatInt(license.CourseID, 10))

	var created []struct {
		ID int64 `json:"id"`
	}
	if err := c.call(ctx, "block_iomad_company_admin_create_licenses", params, &created); err != nil {
		return 0, err
	}
	if len(created) == 0 {
		return 0, fmt.Errorf("license creation returned no record")
	}
	return created[0].ID, nil
}

// AllocateLicense consumes one seat on a license for a user/course pair. The
// registry increments the used count; calling twice consumes two seats, so
// callers must guard against duplicate submission.
func (c *Client) AllocateLicense(ctx context.Context, licenseID, userID, courseID int64) error {
	params := url.Values{}
	params.Set("licenses[0][licenseid]", strconv.FormatInt(licenseID, 10))
	params.Set("licenses[0][licenseuserid]", strconv.FormatInt(userID, 10))
	params.Set("licenses[0][licensecourseid]", strconv.FormatInt(courseID, 10))

	return c.call(ctx, "block_iomad_company_admin_allocate_licenses", params, nil)
}

package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"traindesk/internal/models"
)

type CacheService interface {
	// License caching (per company)
	GetCompanyLicenses(ctx context.Context, companyID int64) ([]models.License, error)
	SetCompanyLicenses(ctx context.Context, companyID int64, licenses []models.License, ttl time.Duration) error
	InvalidateCompanyLicenses(ctx context.Context, companyID int64) error

	// Catalog caching
	GetCourses(ctx context.Context) ([]models.Course, error)
	SetCourses(ctx context.Context, courses []models.Course, ttl time.Duration) error
	GetSchools(ctx context.Context) ([]models.School, error)
	SetSchools(ctx context.Context, schools []models.School, ttl time.Duration) error

	// Assignment in-flight guard. Acquire returns false when an assignment
	// for the same (user, course) pair is already running.
	AcquireAssignmentLock(ctx context.Context, userID, courseID int64, ttl time.Duration) (bool, error)
	ReleaseAssignmentLock(ctx context.Context, userID, courseID int64) error

	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port style addresses as well as bare host:port
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetCompanyLicenses(ctx context.Context, companyID int64) ([]models.License, error) {
	key := fmt.Sprintf("traindesk:licenses:%d", companyID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var licenses []models.License
	if err := json.Unmarshal(data, &licenses); err != nil {
		return nil, err
	}
	return licenses, nil
}

func (r *redisCacheService) SetCompanyLicenses(ctx context.Context, companyID int64, licenses []models.License, ttl time.Duration) error {
	key := fmt.Sprintf("traindesk:licenses:%d", companyID)
	data, err := json.Marshal(licenses)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) InvalidateCompanyLicenses(ctx context.Context, companyID int64) error {
	key := fmt.Sprintf("traindesk:licenses:%d", companyID)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetCourses(ctx context.Context) ([]models.Course, error) {
	data, err := r.client.Get(ctx, "traindesk:courses").Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var courses []models.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *redisCacheService) SetCourses(ctx context.Context, courses []models.Course, ttl time.Duration) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "traindesk:courses", data, ttl).Err()
}

func (r *redisCacheService) GetSchools(ctx context.Context) ([]models.School, error) {
	data, err := r.client.Get(ctx, "traindesk:schools").Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var schools []models.School
	if err := json.Unmarshal(data, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *redisCacheService) SetSchools(ctx context.Context, schools []models.School, ttl time.Duration) error {
	data, err := json.Marshal(schools)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "traindesk:schools", data, ttl).Err()
}

func (r *redisCacheService) AcquireAssignmentLock(ctx context.Context, userID, courseID int64, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("traindesk:assigning:%d:%d", userID, courseID)
	return r.client.SetNX(ctx, key, "1", ttl).Result()
}

func (r *redisCacheService) ReleaseAssignmentLock(ctx context.Context, userID, courseID int64) error {
	key := fmt.Sprintf("traindesk:assigning:%d:%d", userID, courseID)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

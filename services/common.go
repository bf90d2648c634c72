package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Pagination bounds shared by every list operation
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ValidatePagination rejects a negative skip or a limit outside 1..MaxLimit
func ValidatePagination(skip, limit int) error {
	if skip < 0 {
		return ValidationError("skip must be zero or greater")
	}
	if limit < 1 || limit > MaxLimit {
		return ValidationError("limit must be between 1 and %d", MaxLimit)
	}
	return nil
}

// findByID loads a row by primary key, reporting a missing row as NotFound with the given label
func findByID[T any](db *gorm.DB, id, label string) (*T, error) {
	var m T
	if id == "" {
		return nil, NotFoundError("%s not found", label)
	}
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("%s not found", label)
		}
		return nil, err
	}
	return &m, nil
}

// listPage returns one page of rows ordered by order, plus the unpaginated total
func listPage[T any](query *gorm.DB, order string, skip, limit int) ([]T, int64, error) {
	if err := ValidatePagination(skip, limit); err != nil {
		return nil, 0, err
	}

	// Session makes the filtered chain safe to reuse for both statements
	base := query.Session(&gorm.Session{})

	var total int64
	var items []T
	if err := base.Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := base.Order(order).Offset(skip).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ensureUnique fails with Conflict when another row (other than excludeID) already holds value in column
func ensureUnique(tx *gorm.DB, model interface{}, column, value, excludeID, message string) error {
	var count int64
	query := tx.Model(model).Where(column+" = ?", value)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ConflictError("%s", message)
	}
	return nil
}

// dependent describes rows that block a delete while they reference the target
type dependent struct {
	model   interface{}
	column  string
	message string
}

// ensureNoDependents fails with Conflict naming the first dependent kind that still references id
func ensureNoDependents(tx *gorm.DB, id string, deps ...dependent) error {
	for _, d := range deps {
		var count int64
		if err := tx.Model(d.model).Where(d.column+" = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ConflictError("%s", d.message)
		}
	}
	return nil
}

// trimmed returns the trimmed value of an optional string, or nil when it is blank
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// required trims s and fails with Validation naming field when it is missing or blank
func required(s *string, field string) (string, error) {
	v := trimmed(s)
	if v == nil {
		return "", ValidationError("%s is required", field)
	}
	return *v, nil
}

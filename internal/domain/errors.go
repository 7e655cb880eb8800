package domain

import "errors"

// Domain errors returned by services and repository implementations.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrTaskNotFound indicates the specified task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrUnauthorized indicates the caller could not be identified.
	// Discovery queries must fail with this error rather than degrade to
	// an unscoped or empty result.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPermissionDenied indicates the caller is authenticated but does
	// not own the resource it is trying to touch.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrTitleRequired indicates a task was submitted without a title.
	ErrTitleRequired = errors.New("title is required")

	// ErrTitleTooLong indicates the title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title too long")

	// ErrDescriptionTooLong indicates the description exceeds MaxDescriptionLength.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrCategoryTooLong indicates the category exceeds MaxCategoryLength.
	ErrCategoryTooLong = errors.New("category too long")

	// ErrInvalidTaskPriority indicates an unrecognized priority level.
	ErrInvalidTaskPriority = errors.New("invalid task priority")
)

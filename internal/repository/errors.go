package repository

import (
	"errors"
	"fmt"

	gogithub "github.com/google/go-github/v68/github"
)

// Classified provider errors. Callers match with errors.Is and turn each
// class into user-visible text; nothing here is retried.
var (
	// ErrNotFound means the user, repository, or resource doesn't exist
	// (or the token can't see it).
	ErrNotFound = errors.New("not found")
	// ErrAuth means the configured token was rejected or lacks scope.
	ErrAuth = errors.New("authentication failed")
	// ErrRateLimited means the platform's API rate limit is exhausted.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnavailable covers transient network and upstream 5xx failures.
	ErrUnavailable = errors.New("provider unavailable")
)

// classifyGitHub translates a go-github error into one of the sentinel
// classes, preserving the original as wrapped context.
func classifyGitHub(err error, op string) error {
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%s: %w (resets %s)", op, ErrRateLimited, rateErr.Rate.Reset.Format("15:04 MST"))
	}
	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%s: %w (secondary limit)", op, ErrRateLimited)
	}
	var respErr *gogithub.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return fmt.Errorf("%s: %w", op, classifyStatus(respErr.Response.StatusCode))
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

// classifyStatus maps an HTTP status from either provider onto a sentinel.
func classifyStatus(status int) error {
	switch {
	case status == 404:
		return ErrNotFound
	case status == 401 || status == 403:
		return ErrAuth
	case status == 429:
		return ErrRateLimited
	default:
		return ErrUnavailable
	}
}

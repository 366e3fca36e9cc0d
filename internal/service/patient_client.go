package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/xiomaraocampoh/prubaserviconli/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PatientDirectory synchronous lookup against the remote patient service.
// No caching: every task operation re-fetches so enrichment always
// reflects the registry at the moment of the operation.
type PatientDirectory interface {
	// FetchByID returns the patient or domain.ErrPatientNotFound.
	// Transport failures and non-2xx responses other than 404 surface as
	// domain.ErrRegistryUnavailable.
	FetchByID(ctx context.Context, identifier string) (*domain.PatientSummary, error)

	// SearchIDsByName returns the identifiers of patients whose name
	// matches the pattern. An empty result is not an error.
	SearchIDsByName(ctx context.Context, namePattern string) ([]string, error)
}

// PatientDirectoryClient resty-based PatientDirectory implementation.
type PatientDirectoryClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewPatientDirectoryClient creates the patient service client. The
// timeout is the only resilience mechanism; there is deliberately no
// retry, a failed lookup fails the caller's path.
func NewPatientDirectoryClient(baseURL string, timeout time.Duration, logger *zap.Logger) *PatientDirectoryClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &PatientDirectoryClient{
		httpClient: client,
		logger:     logger,
	}
}

var _ PatientDirectory = (*PatientDirectoryClient)(nil)

// FetchByID calls GET /api/v1/patients/{identifier}.
func (c *PatientDirectoryClient) FetchByID(ctx context.Context, identifier string) (*domain.PatientSummary, error) {
	var summary domain.PatientSummary
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&summary).
		Get("/api/v1/patients/" + url.PathEscape(identifier))
	if err != nil {
		c.logger.Error("patient service call failed",
			zap.String("patient_identifier", identifier),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrRegistryUnavailable, err)
	}

	switch {
	case resp.StatusCode() == 404:
		return nil, domain.ErrPatientNotFound
	case !resp.IsSuccess():
		c.logger.Error("patient service returned error status",
			zap.String("patient_identifier", identifier),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("%w: status %d", domain.ErrRegistryUnavailable, resp.StatusCode())
	}

	return &summary, nil
}

// SearchIDsByName calls GET /api/v1/patients/search?name= and extracts
// the id_number of every match.
func (c *PatientDirectoryClient) SearchIDsByName(ctx context.Context, namePattern string) ([]string, error) {
	var matches []domain.PatientSummary
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("name", namePattern).
		SetResult(&matches).
		Get("/api/v1/patients/search")
	if err != nil {
		c.logger.Error("patient search call failed",
			zap.String("name_pattern", namePattern),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrRegistryUnavailable, err)
	}
	if !resp.IsSuccess() {
		c.logger.Error("patient search returned error status",
			zap.String("name_pattern", namePattern),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("%w: status %d", domain.ErrRegistryUnavailable, resp.StatusCode())
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.IDNumber != "" {
			ids = append(ids, m.IDNumber)
		}
	}
	return ids, nil
}

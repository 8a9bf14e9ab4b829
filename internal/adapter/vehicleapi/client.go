package vehicleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/port"
)

var _ port.VehicleRepository = (*Client)(nil)

const requestTimeout = 10 * time.Second

// A Client is the thin HTTP boundary to the vehicles persistence
// service. It carries no business logic and performs no retries;
// retry policy, if any, belongs to the caller.
type Client struct {
	baseURL string
	hc      *http.Client
}

func NewClient(baseURL string) Client {
	return Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: requestTimeout},
	}
}

// List returns all vehicle records ordered by creation time descending.
func (c Client) List(ctx context.Context) ([]domain.Vehicle, error) {
	const op = "vehicleapi.Client.List"

	res, err := c.do(ctx, http.MethodGet, "/v1/vehicles", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer closeBody(res)

	if err := c.checkStatus(res, http.StatusOK); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var rs []vehicleRecord
	if err := json.NewDecoder(res.Body).Decode(&rs); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrConnection, err)
	}

	vs := make([]domain.Vehicle, len(rs))
	for i, r := range rs {
		vs[i] = recordToDomain(r)
	}
	return vs, nil
}

// Insert stores a draft and returns the created record with the
// server-assigned id and timestamps.
func (c Client) Insert(
	ctx context.Context, d domain.VehicleDraft,
) (domain.Vehicle, error) {
	const op = "vehicleapi.Client.Insert"

	res, err := c.do(ctx, http.MethodPost, "/v1/vehicles", draftToWire(d))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("%s: %w", op, err)
	}
	defer closeBody(res)

	if err := c.checkStatus(res, http.StatusCreated); err != nil {
		return domain.Vehicle{}, fmt.Errorf("%s: %w", op, err)
	}

	var r vehicleRecord
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return domain.Vehicle{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrConnection, err,
		)
	}
	return recordToDomain(r), nil
}

// Update replaces the editable fields of the record with the given id.
func (c Client) Update(
	ctx context.Context, id string, d domain.VehicleDraft,
) error {
	const op = "vehicleapi.Client.Update"

	res, err := c.do(ctx, http.MethodPut, "/v1/vehicles/"+id, draftToWire(d))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer closeBody(res)

	if err := c.checkStatus(res, http.StatusOK); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete removes the record with the given id.
func (c Client) Delete(ctx context.Context, id string) error {
	const op = "vehicleapi.Client.Delete"

	res, err := c.do(ctx, http.MethodDelete, "/v1/vehicles/"+id, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer closeBody(res)

	if err := c.checkStatus(res, http.StatusOK); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c Client) do(
	ctx context.Context, method, path string, body any,
) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	return res, nil
}

func (c Client) checkStatus(res *http.Response, want int) error {
	if res.StatusCode == want {
		return nil
	}

	switch res.StatusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest, http.StatusConflict:
		return domain.ErrConstraint
	}
	return fmt.Errorf(
		"%w: unexpected status %d", domain.ErrConnection, res.StatusCode,
	)
}

func closeBody(res *http.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}

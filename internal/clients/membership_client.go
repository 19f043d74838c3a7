// internal/clients/membership_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"clubnexus/internal/membership"
)

// MembershipClient talks to the membership HTTP API.
type MembershipClient struct {
	baseURL string
	http    *http.Client
}

// NewMembershipClient returns a client for the API rooted at baseURL. A nil
// httpClient means http.DefaultClient.
func NewMembershipClient(baseURL string, httpClient *http.Client) *MembershipClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MembershipClient{baseURL: baseURL, http: httpClient}
}

// ListMembers returns the members matching q.
func (c *MembershipClient) ListMembers(ctx context.Context, q membership.Query) ([]membership.Member, error) {
	params := url.Values{}
	if q.Text != "" {
		params.Set("q", q.Text)
	}
	if q.Flag != membership.FlagNone {
		params.Set("filter", string(q.Flag))
	}
	path := "/members"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var members []membership.Member
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *MembershipClient) GetMember(ctx context.Context, id uuid.UUID) (*membership.Member, error) {
	var member membership.Member
	if err := c.do(ctx, http.MethodGet, "/members/"+id.String(), nil, http.StatusOK, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *MembershipClient) CreateMember(ctx context.Context, in membership.MemberInput) (*membership.Member, error) {
	var member membership.Member
	if err := c.do(ctx, http.MethodPost, "/members", in, http.StatusCreated, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *MembershipClient) UpdateMember(ctx context.Context, patch membership.MemberPatch) (*membership.Member, error) {
	var member membership.Member
	if err := c.do(ctx, http.MethodPatch, "/members/"+patch.ID.String(), patch, http.StatusOK, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// DeleteMember deletes a member. The server requires explicit confirmation,
// which this call always gives; ask the user before calling it.
func (c *MembershipClient) DeleteMember(ctx context.Context, id uuid.UUID) (membership.DeleteResult, error) {
	var result membership.DeleteResult
	err := c.do(ctx, http.MethodDelete, "/members/"+id.String()+"?confirm=true", nil, http.StatusOK, &result)
	return result, err
}

func (c *MembershipClient) NextPayment(ctx context.Context, id uuid.UUID) (*membership.Payment, error) {
	var payment membership.Payment
	if err := c.do(ctx, http.MethodGet, "/members/"+id.String()+"/next-payment", nil, http.StatusOK, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *MembershipClient) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case want:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusUnprocessableEntity:
		verr := &membership.ValidationError{}
		if err := json.NewDecoder(resp.Body).Decode(verr); err != nil {
			return fmt.Errorf("decode validation errors: %w", err)
		}
		return verr
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, membership.ErrMemberNotFound)
	default:
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, apiErr.Error)
	}
}

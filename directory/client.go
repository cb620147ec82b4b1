package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/clinic-gateway/gateway"
	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
)

// Client reads and edits the staff of the caller's own institution. The
// institution comes from the persisted token on every call; when it cannot
// be determined no request is made.
type Client struct {
	reader  *jwt.Reader
	gateway *gateway.Gateway
	baseURL string
}

func NewClient(reader *jwt.Reader, gw *gateway.Gateway, baseURL string) *Client {
	return &Client{
		reader:  reader,
		gateway: gw,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// StaffPath is the collection path for an institution's staff
func StaffPath(institutionID int64) string {
	return fmt.Sprintf("/api/institutions/%d/staff", institutionID)
}

func (c *Client) staffURL(ctx context.Context, suffix string) (string, error) {
	id, ok := c.reader.InstitutionID(ctx)
	if !ok {
		return "", apperrors.ErrNoInstitution
	}
	return c.baseURL + StaffPath(id) + suffix, nil
}

// ListStaff returns the institution's staff, filtered by role when one is
// given
func (c *Client) ListStaff(ctx context.Context, role jwt.Role) ([]StaffMember, error) {
	suffix := ""
	if role != "" {
		suffix = "?" + url.Values{"role": []string{string(role)}}.Encode()
	}
	u, err := c.staffURL(ctx, suffix)
	if err != nil {
		return nil, err
	}

	staff := make([]StaffMember, 0)
	if err := c.gateway.DoInto(ctx, gateway.Request{URL: u}, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (c *Client) GetStaff(ctx context.Context, id int64) (*StaffMember, error) {
	u, err := c.staffURL(ctx, fmt.Sprintf("/%d", id))
	if err != nil {
		return nil, err
	}
	var member StaffMember
	if err := c.gateway.DoInto(ctx, gateway.Request{URL: u}, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// Me returns the staff record of the logged in user
func (c *Client) Me(ctx context.Context) (*StaffMember, error) {
	userID, ok := c.reader.UserID(ctx)
	if !ok {
		return nil, apperrors.ErrNoUser
	}
	return c.GetStaff(ctx, userID)
}

func (c *Client) CreateStaff(ctx context.Context, member NewStaffMember) (*StaffMember, error) {
	if strings.TrimSpace(member.Name) == "" || strings.TrimSpace(member.Email) == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "name and email are required")
	}
	if !member.Role.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "unknown role %q", member.Role)
	}
	return c.send(ctx, http.MethodPost, "", member)
}

func (c *Client) UpdateStaff(ctx context.Context, id int64, update StaffUpdate) (*StaffMember, error) {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/%d", id), update)
}

func (c *Client) DeleteStaff(ctx context.Context, id int64) error {
	u, err := c.staffURL(ctx, fmt.Sprintf("/%d", id))
	if err != nil {
		return err
	}
	var ack map[string]any
	return c.gateway.DoInto(ctx, gateway.Request{URL: u, Method: http.MethodDelete}, &ack)
}

func (c *Client) send(ctx context.Context, method, suffix string, payload any) (*StaffMember, error) {
	u, err := c.staffURL(ctx, suffix)
	if err != nil {
		return nil, err
	}
	body, err := gateway.JSONBody(payload)
	if err != nil {
		return nil, err
	}
	var member StaffMember
	if err := c.gateway.DoInto(ctx, gateway.Request{URL: u, Method: method, Body: body}, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

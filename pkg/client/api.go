package client

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) Register(ctx context.Context, in *UserRequest) (*User, error) {
	out := &User{}
	if err := c.genericCall(ctx, http.MethodPost, "/user/register", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login keeps the returned token for the following calls
func (c *Client) Login(ctx context.Context, name, password string) (*LoginResponse, error) {
	out := &LoginResponse{}
	if err := c.genericCall(ctx, http.MethodPost, "/user/login", &LoginRequest{Name: name, Password: password}, out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return out, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	out := &User{}
	if err := c.genericCall(ctx, http.MethodGet, "/user/me", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Users(ctx context.Context) ([]*User, error) {
	out := make([]*User, 0)
	if err := c.genericCall(ctx, http.MethodGet, "/user", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) User(ctx context.Context, id int64) (*User, error) {
	out := &User{}
	if err := c.genericCall(ctx, http.MethodGet, fmt.Sprintf("/user/%d", id), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in *UserRequest) (*User, error) {
	out := &User{}
	if err := c.genericCall(ctx, http.MethodPut, fmt.Sprintf("/user/%d", id), in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.genericCall(ctx, http.MethodDelete, fmt.Sprintf("/user/%d", id), nil, nil)
}

func (c *Client) Records(ctx context.Context, kind Kind) ([]*Record, error) {
	out := make([]*Record, 0)
	if err := c.genericCall(ctx, http.MethodGet, "/"+string(kind), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RecordsByUser(ctx context.Context, kind Kind, userID int64) ([]*Record, error) {
	out := make([]*Record, 0)
	if err := c.genericCall(ctx, http.MethodGet, fmt.Sprintf("/%s/user/%d", kind, userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Record(ctx context.Context, kind Kind, id int64) (*Record, error) {
	out := &Record{}
	if err := c.genericCall(ctx, http.MethodGet, fmt.Sprintf("/%s/%d", kind, id), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRecord(ctx context.Context, kind Kind, in *RecordRequest) (*Record, error) {
	out := &Record{}
	if err := c.genericCall(ctx, http.MethodPost, "/"+string(kind), in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateRecord(ctx context.Context, kind Kind, id int64, in *RecordRequest) (*Record, error) {
	out := &Record{}
	if err := c.genericCall(ctx, http.MethodPut, fmt.Sprintf("/%s/%d", kind, id), in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteRecord(ctx context.Context, kind Kind, id int64) error {
	return c.genericCall(ctx, http.MethodDelete, fmt.Sprintf("/%s/%d", kind, id), nil, nil)
}

func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string)
	if err := c.genericCall(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

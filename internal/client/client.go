package client

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientExists   = errors.New("client already exists")
)

// Client represents a customer organization a tenant is billed under.
// Clients are a global entity, visible across tenants.
type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	Phone        string    `json:"phone"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Repository defines the interface for client persistence
type Repository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
	GetByName(ctx context.Context, name string) (*Client, error)
	List(ctx context.Context, limit, offset int) ([]*Client, error)
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id string) error
}

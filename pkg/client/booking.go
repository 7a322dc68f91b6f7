package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// BookingClient calls the booking service on behalf of one authenticated user.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL, token string) *BookingClient {
	hc := NewHttpClient(baseURL)
	hc.Token = token
	return &BookingClient{httpClient: hc}
}

func (c *BookingClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func (c *BookingClient) CreateBooking(ctx context.Context, propertyID string, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/properties/"+url.PathEscape(propertyID)+"/bookings", body)
}

func (c *BookingClient) CancelBooking(ctx context.Context, bookingID string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/bookings/"+url.PathEscape(bookingID))
}

func (c *BookingClient) GetBooking(ctx context.Context, bookingID string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/bookings/"+url.PathEscape(bookingID))
}

func (c *BookingClient) MyBookings(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/users/me/bookings")
}

func (c *BookingClient) GetProperty(ctx context.Context, propertyID string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/properties/"+url.PathEscape(propertyID))
}

func (c *BookingClient) PostReview(ctx context.Context, propertyID string, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/properties/"+url.PathEscape(propertyID)+"/reviews", body)
}

func (c *BookingClient) Notifications(ctx context.Context, limit int, offset int64) (*Response, error) {
	return c.httpClient.GET(ctx, fmt.Sprintf("/api/v1/users/me/notifications?limit=%d&offset=%d", limit, offset))
}

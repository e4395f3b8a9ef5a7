package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/Pu11en/peptide-website/internal/payments"
	"github.com/Pu11en/peptide-website/internal/pricing"
)

// DefaultShippingCents is the flat shipping fee applied when a checkout
// request does not carry a usable shippingCents value.
const DefaultShippingCents int64 = 1000

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

type Request struct {
	Items         []pricing.Request
	Customer      *Customer
	ShippingCents int64
}

// metadataItem is the compact item shape serialized into session metadata.
// The full customer address goes into its own metadata field because the
// provider's metadata values have a strict size budget.
type metadataItem struct {
	Slug string `json:"slug"`
	Qty  int    `json:"qty"`
	Size string `json:"size"`
}

// Service builds provider checkout sessions from re-priced cart contents.
type Service struct {
	resolver *pricing.Resolver
	gateway  payments.Gateway
	siteURL  string
}

func NewService(resolver *pricing.Resolver, gateway payments.Gateway, siteURL string) *Service {
	return &Service{
		resolver: resolver,
		gateway:  gateway,
		siteURL:  strings.TrimRight(siteURL, "/"),
	}
}

// CreateSession re-prices the requested items, appends the flat shipping
// line, and creates a hosted checkout session carrying the order shape in
// its metadata.
func (s *Service) CreateSession(ctx context.Context, req *Request) (*payments.Session, error) {
	if s.gateway == nil {
		return nil, payments.ErrNotConfigured
	}

	resolution, err := s.resolver.Resolve(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	lineItems := make([]payments.LineItem, 0, len(resolution.Lines)+1)
	for _, line := range resolution.Lines {
		lineItems = append(lineItems, payments.LineItem{
			Name:      line.Name,
			UnitCents: line.UnitCents,
			Quantity:  int64(line.Quantity),
			ImageURL:  s.absoluteImageURL(line.Image),
			Metadata:  map[string]string{"slug": line.Slug, "size": line.Size},
		})
	}

	shipping := req.ShippingCents
	if shipping < 0 {
		shipping = DefaultShippingCents
	}
	lineItems = append(lineItems, payments.LineItem{
		Name:      "Flat Shipping",
		UnitCents: shipping,
		Quantity:  1,
	})

	metaItems := make([]metadataItem, 0, len(req.Items))
	for _, item := range req.Items {
		metaItems = append(metaItems, metadataItem{Slug: item.Slug, Qty: item.Quantity, Size: item.Size})
	}
	itemsJSON, err := json.Marshal(metaItems)
	if err != nil {
		return nil, fmt.Errorf("marshal items metadata: %w", err)
	}

	metadata := map[string]string{
		"items": string(itemsJSON),
	}
	input := &payments.SessionInput{
		LineItems:  lineItems,
		Metadata:   metadata,
		SuccessURL: s.siteURL + "/success-payment?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.siteURL + "/?canceled=1",
	}

	if c := req.Customer; c != nil {
		metadata["customerName"] = c.Name
		metadata["customerPhone"] = c.Phone
		addressJSON, err := json.Marshal(c.Address)
		if err != nil {
			return nil, fmt.Errorf("marshal shipping address: %w", err)
		}
		metadata["shippingAddress"] = string(addressJSON)
		input.CustomerEmail = c.Email
		input.CollectBillingAddress = true
	}

	return s.gateway.CreateCheckoutSession(ctx, input)
}

// absoluteImageURL turns a catalog image path into an absolute URL the
// provider's hosted page can load. Paths with spaces get percent-encoded.
func (s *Service) absoluteImageURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := url.URL{Path: path}
	return s.siteURL + u.EscapedPath()
}

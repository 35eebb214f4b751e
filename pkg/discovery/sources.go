package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/contentfactory-ai/platform/pkg/common/models"
)

// Source fetches trending product candidates from one external catalog.
// Fetch is best effort and may return fewer items than requested.
type Source interface {
	Name() string
	Fetch(ctx context.Context, limit int) ([]models.ProductCandidate, error)
}

// FakeStoreSource queries the public FakeStore API. It needs no credentials
// and is the default development source.
type FakeStoreSource struct {
	client  *http.Client
	baseURL string
}

func NewFakeStoreSource(client *http.Client) *FakeStoreSource {
	return &FakeStoreSource{client: client, baseURL: "https://fakestoreapi.com"}
}

// NewFakeStoreSourceWithBaseURL is used by tests to point at a local server.
func NewFakeStoreSourceWithBaseURL(client *http.Client, baseURL string) *FakeStoreSource {
	return &FakeStoreSource{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *FakeStoreSource) Name() string { return "fakestore" }

func (s *FakeStoreSource) Fetch(ctx context.Context, limit int) ([]models.ProductCandidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/products", nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fakestore request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fakestore returned status %d", resp.StatusCode)
	}

	var items []struct {
		ID          int     `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Image       string  `json:"image"`
		Category    string  `json:"category"`
		Rating      struct {
			Rate float64 `json:"rate"`
		} `json:"rating"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding fakestore response: %w", err)
	}

	candidates := make([]models.ProductCandidate, 0, limit)
	for _, item := range items {
		if len(candidates) >= limit {
			break
		}
		candidates = append(candidates, models.ProductCandidate{
			Name:        item.Title,
			Description: item.Description,
			Price:       fmt.Sprintf("$%.2f", item.Price),
			URL:         fmt.Sprintf("%s/products/%d", s.baseURL, item.ID),
			ImageURL:    item.Image,
			Category:    item.Category,
			Rating:      item.Rating.Rate,
			Source:      s.Name(),
			IsTrending:  true,
		})
	}
	return candidates, nil
}

// EbaySource queries the eBay Browse API for trending items.
type EbaySource struct {
	client *http.Client
	apiKey string
}

func NewEbaySource(client *http.Client, apiKey string) *EbaySource {
	return &EbaySource{client: client, apiKey: apiKey}
}

func (s *EbaySource) Name() string { return "ebay" }

func (s *EbaySource) Fetch(ctx context.Context, limit int) ([]models.ProductCandidate, error) {
	url := fmt.Sprintf("https://api.ebay.com/buy/browse/v1/item_summary/search?q=trending&limit=%d", limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ebay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ebay returned status %d", resp.StatusCode)
	}

	var payload struct {
		ItemSummaries []struct {
			Title            string `json:"title"`
			ShortDescription string `json:"shortDescription"`
			Price            struct {
				Value string `json:"value"`
			} `json:"price"`
			ItemWebURL string `json:"itemWebUrl"`
			Image      struct {
				ImageURL string `json:"imageUrl"`
			} `json:"image"`
			Categories []struct {
				CategoryName string `json:"categoryName"`
			} `json:"categories"`
		} `json:"itemSummaries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding ebay response: %w", err)
	}

	candidates := make([]models.ProductCandidate, 0, limit)
	for _, item := range payload.ItemSummaries {
		if len(candidates) >= limit {
			break
		}
		category := "ebay-product"
		if len(item.Categories) > 0 {
			category = item.Categories[0].CategoryName
		}
		candidates = append(candidates, models.ProductCandidate{
			Name:        item.Title,
			Description: item.ShortDescription,
			Price:       "$" + item.Price.Value,
			URL:         item.ItemWebURL,
			ImageURL:    item.Image.ImageURL,
			Category:    category,
			Rating:      4.2,
			Source:      s.Name(),
			IsTrending:  true,
		})
	}
	return candidates, nil
}

// EtsySource queries the Etsy Open API for active trending listings.
type EtsySource struct {
	client *http.Client
	apiKey string
}

func NewEtsySource(client *http.Client, apiKey string) *EtsySource {
	return &EtsySource{client: client, apiKey: apiKey}
}

func (s *EtsySource) Name() string { return "etsy" }

func (s *EtsySource) Fetch(ctx context.Context, limit int) ([]models.ProductCandidate, error) {
	url := fmt.Sprintf("https://openapi.etsy.com/v3/application/listings/active?keywords=trending&limit=%d", limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("etsy request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("etsy returned status %d", resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			Price       struct {
				Amount int `json:"amount"`
			} `json:"price"`
			Images []struct {
				URL570xN string `json:"url_570xN"`
			} `json:"images"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding etsy response: %w", err)
	}

	candidates := make([]models.ProductCandidate, 0, limit)
	for _, listing := range payload.Results {
		if len(candidates) >= limit {
			break
		}
		description := listing.Description
		if len(description) > 200 {
			description = description[:200]
		}
		imageURL := ""
		if len(listing.Images) > 0 {
			imageURL = listing.Images[0].URL570xN
		}
		candidates = append(candidates, models.ProductCandidate{
			Name:        listing.Title,
			Description: description,
			// Etsy prices are in cents
			Price:      fmt.Sprintf("$%.2f", float64(listing.Price.Amount)/100),
			URL:        listing.URL,
			ImageURL:   imageURL,
			Category:   "handmade",
			Rating:     4.3,
			Source:     s.Name(),
			IsTrending: true,
		})
	}
	return candidates, nil
}

// ShopifySource queries a configured Shopify store's Admin API.
type ShopifySource struct {
	client   *http.Client
	apiKey   string
	storeURL string
}

func NewShopifySource(client *http.Client, apiKey, storeURL string) *ShopifySource {
	return &ShopifySource{client: client, apiKey: apiKey, storeURL: storeURL}
}

func (s *ShopifySource) Name() string { return "shopify" }

func (s *ShopifySource) Fetch(ctx context.Context, limit int) ([]models.ProductCandidate, error) {
	url := fmt.Sprintf("https://%s/admin/api/2023-10/products.json?limit=%d", s.storeURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify returned status %d", resp.StatusCode)
	}

	var payload struct {
		Products []struct {
			Title       string `json:"title"`
			BodyHTML    string `json:"body_html"`
			Handle      string `json:"handle"`
			ProductType string `json:"product_type"`
			Variants    []struct {
				Price string `json:"price"`
			} `json:"variants"`
			Images []struct {
				Src string `json:"src"`
			} `json:"images"`
		} `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding shopify response: %w", err)
	}

	candidates := make([]models.ProductCandidate, 0, limit)
	for _, product := range payload.Products {
		if len(candidates) >= limit {
			break
		}
		price := "$0"
		if len(product.Variants) > 0 {
			price = "$" + product.Variants[0].Price
		}
		imageURL := ""
		if len(product.Images) > 0 {
			imageURL = product.Images[0].Src
		}
		category := product.ProductType
		if category == "" {
			category = "shopify-product"
		}
		candidates = append(candidates, models.ProductCandidate{
			Name:        product.Title,
			Description: strings.TrimSpace(product.BodyHTML),
			Price:       price,
			URL:         fmt.Sprintf("https://%s/products/%s", s.storeURL, product.Handle),
			ImageURL:    imageURL,
			Category:    category,
			Rating:      4.0,
			Source:      s.Name(),
			IsTrending:  true,
		})
	}
	return candidates, nil
}

// AmazonSource queries the Product Advertising API.
type AmazonSource struct {
	client *http.Client
	apiKey string
}

func NewAmazonSource(client *http.Client, apiKey string) *AmazonSource {
	return &AmazonSource{client: client, apiKey: apiKey}
}

func (s *AmazonSource) Name() string { return "amazon" }

func (s *AmazonSource) Fetch(ctx context.Context, limit int) ([]models.ProductCandidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://webservices.amazon.com/paapi5/searchitems", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("amazon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("amazon returned status %d", resp.StatusCode)
	}

	var payload struct {
		SearchResult struct {
			Items []struct {
				DetailPageURL string `json:"DetailPageURL"`
				ItemInfo      struct {
					Title struct {
						DisplayValue string `json:"DisplayValue"`
					} `json:"Title"`
					Features struct {
						DisplayValues []string `json:"DisplayValues"`
					} `json:"Features"`
				} `json:"ItemInfo"`
				Offers struct {
					Listings []struct {
						Price struct {
							DisplayAmount string `json:"DisplayAmount"`
						} `json:"Price"`
					} `json:"Listings"`
				} `json:"Offers"`
				Images struct {
					Primary struct {
						Large struct {
							URL string `json:"URL"`
						} `json:"Large"`
					} `json:"Primary"`
				} `json:"Images"`
			} `json:"Items"`
		} `json:"SearchResult"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding amazon response: %w", err)
	}

	candidates := make([]models.ProductCandidate, 0, limit)
	for _, item := range payload.SearchResult.Items {
		if len(candidates) >= limit {
			break
		}
		description := ""
		if len(item.ItemInfo.Features.DisplayValues) > 0 {
			description = item.ItemInfo.Features.DisplayValues[0]
		}
		price := "$0"
		if len(item.Offers.Listings) > 0 {
			price = item.Offers.Listings[0].Price.DisplayAmount
		}
		candidates = append(candidates, models.ProductCandidate{
			Name:        item.ItemInfo.Title.DisplayValue,
			Description: description,
			Price:       price,
			URL:         item.DetailPageURL,
			ImageURL:    item.Images.Primary.Large.URL,
			Category:    "amazon-product",
			Rating:      4.5,
			Source:      s.Name(),
			IsTrending:  true,
		})
	}
	return candidates, nil
}

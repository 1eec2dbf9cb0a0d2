package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fridgebot/backend/internal/domain"
)

// statementRequest carries one free-text statement
type statementRequest struct {
	Text      string `json:"text" binding:"required"`
	FirstName string `json:"first_name"`
}

// consumeItem is an already structured ingredient; quantity accepts a JSON number or string
type consumeItem struct {
	Product  string           `json:"product" binding:"required"`
	Quantity *decimal.Decimal `json:"quantity"`
	Unit     *string          `json:"unit"`
}

type consumeRequest struct {
	Items []consumeItem `json:"items" binding:"required,min=1,dive"`
}

// validQuantities reports whether every given quantity is above zero
func (r consumeRequest) validQuantities() bool {
	for _, item := range r.Items {
		if item.Quantity != nil && !item.Quantity.IsPositive() {
			return false
		}
	}
	return true
}

func (r consumeRequest) parsedItems() []domain.ParsedItem {
	items := make([]domain.ParsedItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.ParsedItem{
			ProductKey: item.Product,
			Quantity:   item.Quantity,
			Unit:       item.Unit,
		})
	}
	return items
}

type addResponse struct {
	Parsed *domain.ParseResult `json:"parsed"`
	Report *domain.AddReport   `json:"report,omitempty"`
	Noop   bool                `json:"noop"`
}

type removeResponse struct {
	Parsed *domain.ParseResult  `json:"parsed"`
	Report *domain.RemoveReport `json:"report,omitempty"`
	Noop   bool                 `json:"noop"`
}

type inventoryResponse struct {
	UserID int64                  `json:"userId"`
	Items  []domain.InventoryLine `json:"items"`
}

type equipmentResponse struct {
	UserID int64    `json:"userId"`
	Items  []string `json:"items"`
}

type equipmentReportResponse struct {
	Report *domain.EquipmentReport `json:"report,omitempty"`
	Noop   bool                    `json:"noop"`
}

type reloadResponse struct {
	Products  int       `json:"products"`
	Equipment int       `json:"equipment"`
	LoadedAt  time.Time `json:"loadedAt"`
}

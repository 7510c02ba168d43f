package http

import (
	"time"

	"brokerage/internal/core/application/usecases/commands"
	"brokerage/internal/core/application/usecases/queries"
	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

type newLineItemRequest struct {
	Ticker      string           `json:"ticker"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	MarketOrder bool             `json:"market_order"`
}

type newOrderRequest struct {
	ClientID  string               `json:"client_id"`
	Side      string               `json:"side"`
	Market    string               `json:"market"`
	Term      string               `json:"term"`
	Notes     string               `json:"notes"`
	LineItems []newLineItemRequest `json:"line_items"`
}

func (r newOrderRequest) lineItems() []commands.LineItemInput {
	items := make([]commands.LineItemInput, 0, len(r.LineItems))
	for _, li := range r.LineItems {
		items = append(items, commands.LineItemInput{
			Ticker:      li.Ticker,
			Quantity:    li.Quantity,
			Price:       li.Price,
			MarketOrder: li.MarketOrder,
		})
	}
	return items
}

type detailsPatchRequest struct {
	Market *string `json:"market,omitempty"`
	Term   *string `json:"term,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

type transitionRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type executionRequest struct {
	LineItemID string           `json:"line_item_id"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Price      *decimal.Decimal `json:"price,omitempty"`
}

type executeLineItemsRequest struct {
	Executions []executionRequest `json:"executions"`
	Note       string             `json:"note"`
}

func (r executeLineItemsRequest) executions() ([]order.Execution, error) {
	out := make([]order.Execution, 0, len(r.Executions))
	for _, e := range r.Executions {
		id, err := kernel.UUIDFromString(e.LineItemID)
		if err != nil {
			return nil, err
		}
		out = append(out, order.Execution{LineItemID: id, Quantity: e.Quantity, Price: e.Price})
	}
	return out, nil
}

type newObservationRequest struct {
	Text string `json:"text"`
}

type lineItemResponse struct {
	ID                string           `json:"id"`
	Position          int              `json:"position"`
	AssetID           string           `json:"asset_id"`
	Ticker            string           `json:"ticker"`
	RequestedQuantity decimal.Decimal  `json:"requested_quantity"`
	RequestedPrice    *decimal.Decimal `json:"requested_price"`
	MarketOrder       bool             `json:"market_order"`
	ExecutedQuantity  *decimal.Decimal `json:"executed_quantity"`
	ExecutedPrice     *decimal.Decimal `json:"executed_price"`
}

type observationResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type orderResponse struct {
	ID                 string                `json:"id"`
	ClientID           string                `json:"client_id"`
	ClientName         string                `json:"client_name"`
	Side               string                `json:"side"`
	Status             string                `json:"status"`
	Market             string                `json:"market"`
	Term               string                `json:"term"`
	Notes              string                `json:"notes"`
	AssignedTraderID   string                `json:"assigned_trader_id"`
	AssignedTraderName string                `json:"assigned_trader_name"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	AllowedTransitions []string              `json:"allowed_transitions"`
	LineItems          []lineItemResponse    `json:"line_items"`
	Observations       []observationResponse `json:"observations"`
}

func toObservationResponse(o queries.ObservationResponse) observationResponse {
	return observationResponse{
		ID:         o.ID.String(),
		AuthorID:   o.AuthorID,
		AuthorName: o.AuthorName,
		Text:       o.Text,
		CreatedAt:  o.CreatedAt,
	}
}

// toOrderResponse never emits null slices so clients can iterate unconditionally.
func toOrderResponse(o queries.OrderResponse) orderResponse {
	resp := orderResponse{
		ID:                 o.ID.String(),
		ClientID:           o.ClientID.String(),
		ClientName:         o.ClientName,
		Side:               o.Side.String(),
		Status:             o.Status.String(),
		Market:             o.Market,
		Term:               o.Term,
		Notes:              o.Notes,
		AssignedTraderID:   o.AssignedTraderID,
		AssignedTraderName: o.AssignedTraderName,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		AllowedTransitions: make([]string, 0, len(o.AllowedTargets)),
		LineItems:          make([]lineItemResponse, 0, len(o.LineItems)),
		Observations:       make([]observationResponse, 0, len(o.Observations)),
	}
	for _, s := range o.AllowedTargets {
		resp.AllowedTransitions = append(resp.AllowedTransitions, s.String())
	}
	for _, li := range o.LineItems {
		resp.LineItems = append(resp.LineItems, lineItemResponse{
			ID:                li.ID.String(),
			Position:          li.Position,
			AssetID:           li.AssetID.String(),
			Ticker:            li.Ticker,
			RequestedQuantity: li.RequestedQuantity,
			RequestedPrice:    li.RequestedPrice,
			MarketOrder:       li.MarketOrder,
			ExecutedQuantity:  li.ExecutedQuantity,
			ExecutedPrice:     li.ExecutedPrice,
		})
	}
	for _, obs := range o.Observations {
		resp.Observations = append(resp.Observations, toObservationResponse(obs))
	}
	return resp
}

func toOrderResponses(orders []queries.OrderResponse) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

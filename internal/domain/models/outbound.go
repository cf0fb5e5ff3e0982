package models

// OutboundMessageRequest represents requests to send a message manually via the API.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// ReorderRequest is the message sent to a supplier when the shop orders more of a product.
type ReorderRequest struct {
	ProductID string `json:"product_id"`
	Barcode   string `json:"barcode"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	OnHand    int    `json:"on_hand"`
	Requested int    `json:"requested"`
}

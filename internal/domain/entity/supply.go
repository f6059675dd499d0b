package entity

// Supply represents an office supply purchase of the cabinet
type Supply struct {
	ID           string `json:"id"`
	Item         string `json:"item"`
	PurchaseDate Date   `json:"dateAchat"`
	Invoiced     bool   `json:"facture"`
	Price        Price  `json:"prix"`
	PaymentType  string `json:"typePaiement"`
	TaxStatus    string `json:"taxe"`
}

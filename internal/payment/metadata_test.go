package payment

import (
	"testing"

	"github.com/bistrokit/bistrokit/internal/ordering"
)

func TestOrderMetadataRoundTrip(t *testing.T) {
	tableID := int64(7)
	input := ordering.PlaceInput{
		TableID: &tableID,
		Items: []ordering.PlaceItem{
			{MenuItemID: 3, Quantity: 2, Customization: "bez cebuli", Takeaway: true},
			{MenuItemID: 9, Quantity: 1},
		},
		Delivery: ordering.DeliveryInfo{Name: "Jan", Phone: "600100200"},
	}

	metadata, err := EncodeOrderMetadata(input, 64.50)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, total, err := DecodeOrderMetadata(metadata)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.TableID == nil || *got.TableID != tableID {
		t.Errorf("table id = %v, want %d", got.TableID, tableID)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}
	if got.Items[0].Customization != "bez cebuli" || !got.Items[0].Takeaway {
		t.Errorf("first line lost fields: %+v", got.Items[0])
	}
	if got.Delivery.Name != "Jan" {
		t.Errorf("delivery name = %q, want Jan", got.Delivery.Name)
	}
	if total != 64.50 {
		t.Errorf("total = %v, want 64.50", total)
	}
}

func TestDecodeMissingMetadata(t *testing.T) {
	if _, _, err := DecodeOrderMetadata(nil); err == nil {
		t.Error("decode nil metadata should fail")
	}
	if _, _, err := DecodeOrderMetadata(map[string]string{"other": "x"}); err == nil {
		t.Error("decode without order key should fail")
	}
	order := map[string]string{"order": `{"items":[]}`}
	if _, _, err := DecodeOrderMetadata(order); err == nil {
		t.Error("decode without quoted total should fail")
	}
}

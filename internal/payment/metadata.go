package payment

import (
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/bistrokit/bistrokit/internal/ordering"
)

// Session metadata fields carrying the serialized pending order and the total
// quoted when the session was opened.
const (
	metadataOrderKey = "order"
	metadataTotalKey = "total"
)

// EncodeOrderMetadata serializes the requested order and its quoted total into
// session metadata so the order is only written to the database after the
// provider confirms payment. The total rides along because menu prices may
// change while the customer sits on the checkout page; the stored order must
// match the amount that was actually charged.
func EncodeOrderMetadata(input ordering.PlaceInput, total float64) (map[string]string, error) {
	raw, err := jsoniter.MarshalToString(input)
	if err != nil {
		return nil, errors.Wrap(err, "encode order metadata")
	}
	return map[string]string{
		metadataOrderKey: raw,
		metadataTotalKey: strconv.FormatFloat(total, 'f', 2, 64),
	}, nil
}

// DecodeOrderMetadata rebuilds the pending order and its quoted total from
// session metadata.
func DecodeOrderMetadata(metadata map[string]string) (ordering.PlaceInput, float64, error) {
	var input ordering.PlaceInput
	raw, ok := metadata[metadataOrderKey]
	if !ok || raw == "" {
		return input, 0, errors.New("session metadata has no order payload")
	}
	if err := jsoniter.UnmarshalFromString(raw, &input); err != nil {
		return input, 0, errors.Wrap(err, "decode order metadata")
	}
	total, err := cast.ToFloat64E(metadata[metadataTotalKey])
	if err != nil {
		return input, 0, errors.Wrap(err, "decode order total")
	}
	return input, total, nil
}

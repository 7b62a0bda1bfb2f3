package cart

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/shopfront/cartcore/internal/domain/catalog"
)

// Record is the persisted cart representation: one record per cart slot.
//
//	{
//	  "items": [ { "productId": ..., "snapshot": {...}, "quantity": ... } ],
//	  "version": ...
//	}
//
// Monetary values are encoded as strings to keep decimal exactness across
// the round trip.
type Record struct {
	Items   []Item
	Version int64
}

// EncodeRecord serializes a record with jx.
func EncodeRecord(rec Record) []byte {
	var e jx.Encoder
	e.ObjStart()

	e.FieldStart("items")
	e.ArrStart()
	for _, item := range rec.Items {
		encodeItem(&e, item)
	}
	e.ArrEnd()

	e.FieldStart("version")
	e.Int64(rec.Version)

	e.ObjEnd()
	return e.Bytes()
}

func encodeItem(e *jx.Encoder, item Item) {
	e.ObjStart()
	e.FieldStart("productId")
	e.Str(item.ProductID)
	e.FieldStart("snapshot")
	encodeSnapshot(e, item.Snapshot)
	e.FieldStart("quantity")
	e.Int(item.Quantity)
	e.ObjEnd()
}

func encodeSnapshot(e *jx.Encoder, s catalog.Snapshot) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(s.ID)
	e.FieldStart("name")
	e.Str(s.Name)
	e.FieldStart("unitPrice")
	e.Str(s.UnitPrice.String())
	e.FieldStart("stockAvailable")
	e.Int(s.StockAvailable)
	if s.Thumbnail != "" {
		e.FieldStart("thumbnail")
		e.Str(s.Thumbnail)
	}
	if s.SellerID != "" {
		e.FieldStart("sellerId")
		e.Str(s.SellerID)
	}
	e.ObjEnd()
}

// DecodeRecord parses a persisted record. Any structural or value error
// means the payload is corrupt or incompatible; the caller treats that as
// "no saved cart".
func DecodeRecord(payload []byte) (Record, error) {
	var rec Record
	d := jx.DecodeBytes(payload)

	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeItem(d)
				if err != nil {
					return err
				}
				rec.Items = append(rec.Items, item)
				return nil
			})
		case "version":
			v, err := d.Int64()
			if err != nil {
				return err
			}
			rec.Version = v
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return Record{}, errors.Wrap(err, "decode cart record")
	}

	// A decodable payload must still satisfy the cart invariants:
	// productId-unique lines with quantities inside the stock ceiling.
	// Anything else is an incompatible record and reads as "no saved
	// cart".
	seen := make(map[string]struct{}, len(rec.Items))
	for _, item := range rec.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			return Record{}, errors.Errorf("invalid item %q in cart record", item.ProductID)
		}
		if _, dup := seen[item.ProductID]; dup {
			return Record{}, errors.Errorf("duplicate item %q in cart record", item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
		if item.Quantity > stockCeiling(item.Snapshot) {
			return Record{}, errors.Errorf("item %q quantity exceeds stock in cart record", item.ProductID)
		}
	}
	return rec, nil
}

func decodeItem(d *jx.Decoder) (Item, error) {
	var item Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			v, err := d.Str()
			if err != nil {
				return err
			}
			item.ProductID = v
			return nil
		case "snapshot":
			s, err := decodeSnapshot(d)
			if err != nil {
				return err
			}
			item.Snapshot = s
			return nil
		case "quantity":
			v, err := d.Int()
			if err != nil {
				return err
			}
			item.Quantity = v
			return nil
		default:
			return d.Skip()
		}
	})
	return item, err
}

func decodeSnapshot(d *jx.Decoder) (catalog.Snapshot, error) {
	var s catalog.Snapshot
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			if err != nil {
				return err
			}
			s.ID = v
			return nil
		case "name":
			v, err := d.Str()
			if err != nil {
				return err
			}
			s.Name = v
			return nil
		case "unitPrice":
			raw, err := d.Str()
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(raw)
			if err != nil {
				return errors.Wrapf(err, "unit price %q", raw)
			}
			s.UnitPrice = price
			return nil
		case "stockAvailable":
			v, err := d.Int()
			if err != nil {
				return err
			}
			s.StockAvailable = v
			return nil
		case "thumbnail":
			v, err := d.Str()
			if err != nil {
				return err
			}
			s.Thumbnail = v
			return nil
		case "sellerId":
			v, err := d.Str()
			if err != nil {
				return err
			}
			s.SellerID = v
			return nil
		default:
			return d.Skip()
		}
	})
	return s, err
}

package worth

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// The document is persisted as JSONL: one record per line, discriminated by
// an "entity" field, written in a stable section order so the file diffs
// cleanly under version control.

type entityKind string

const (
	entAccount     entityKind = "account"
	entAsset       entityKind = "asset"
	entStrategy    entityKind = "strategy"
	entSecurity    entityKind = "security"
	entHolding     entityKind = "holding"
	entTransaction entityKind = "transaction"
	entSnapshot    entityKind = "valuationSnapshot"
	entPosition    entityKind = "valuationPosition"
	entCashflow    entityKind = "valuationCashflow"
)

type record struct {
	Entity entityKind `json:"entity"`
}

// EncodeModel writes the whole document to w, one entity per line.
func EncodeModel(w io.Writer, m *BaseModel) error {
	bw := bufio.NewWriter(w)
	write := func(kind entityKind, v any) error {
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("could not encode %s: %w", kind, err)
		}
		// splice the discriminator in front of the entity's own fields
		if _, err := fmt.Fprintf(bw, "{\"entity\":%q,%s\n", kind, payload[1:]); err != nil {
			return err
		}
		return nil
	}

	for _, v := range m.Strategies {
		if err := write(entStrategy, v); err != nil {
			return err
		}
	}
	for _, v := range m.Assets {
		if err := write(entAsset, v); err != nil {
			return err
		}
	}
	for _, v := range m.Accounts {
		if err := write(entAccount, v); err != nil {
			return err
		}
	}
	for _, v := range m.Securities {
		if err := write(entSecurity, v); err != nil {
			return err
		}
	}
	for _, v := range m.Holdings {
		if err := write(entHolding, v); err != nil {
			return err
		}
	}
	for _, v := range m.Transactions {
		if err := write(entTransaction, v); err != nil {
			return err
		}
	}
	for _, v := range m.orderedSnapshots() {
		if err := write(entSnapshot, v); err != nil {
			return err
		}
	}
	for _, v := range m.ValuationPositions {
		if err := write(entPosition, v); err != nil {
			return err
		}
	}
	for _, v := range m.ValuationCashflows {
		if err := write(entCashflow, v); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeModel reads a JSONL document from r and validates its referential
// integrity; a model with dangling foreign keys is rejected at this
// boundary.
func DecodeModel(r io.Reader) (*BaseModel, error) {
	m := &BaseModel{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("line %d: could not identify entity: %w", line, err)
		}

		var err error
		switch rec.Entity {
		case entAccount:
			var v Account
			if err = json.Unmarshal(raw, &v); err == nil {
				m.Accounts = append(m.Accounts, v)
			}
		case entAsset:
			var v Asset
			if err = json.Unmarshal(raw, &v); err == nil {
				m.Assets = append(m.Assets, v)
			}
		case entStrategy:
			var v Strategy
			if err = json.Unmarshal(raw, &v); err == nil {
				m.Strategies = append(m.Strategies, v)
			}
		case entSecurity:
			var v Security
			if err = json.Unmarshal(raw, &v); err == nil {
				m.Securities = append(m.Securities, v)
			}
		case entHolding:
			var v Holding
			if err = json.Unmarshal(raw, &v); err == nil {
				m.Holdings = append(m.Holdings, v)
			}
		case entTransaction:
			var v Transaction
			if err = json.Unmarshal(raw, &v); err == nil {
				m.Transactions = append(m.Transactions, v)
			}
		case entSnapshot:
			var v ValuationSnapshot
			if err = json.Unmarshal(raw, &v); err == nil {
				m.ValuationSnapshots = append(m.ValuationSnapshots, v)
			}
		case entPosition:
			var v ValuationPosition
			if err = json.Unmarshal(raw, &v); err == nil {
				m.ValuationPositions = append(m.ValuationPositions, v)
			}
		case entCashflow:
			var v ValuationCashflow
			if err = json.Unmarshal(raw, &v); err == nil {
				m.ValuationCashflows = append(m.ValuationCashflows, v)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown entity %q", line, rec.Entity)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: could not decode %s: %w", line, rec.Entity, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return m, nil
}

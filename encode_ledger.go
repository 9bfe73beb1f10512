package budget

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"iter"
)

// EncodeTransaction writes tx as a single JSON line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction %s: %w", tx.ID, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeTransactions writes transactions to w in JSONL format, one
// transaction per line in iteration order.
func EncodeTransactions(w io.Writer, txs iter.Seq2[int, Transaction]) error {
	for _, tx := range txs {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// decodeTransactions reads a JSONL stream of transactions written by
// EncodeTransactions. Amounts are read in currency.
func decodeTransactions(r io.Reader, currency string) ([]Transaction, error) {
	d := &decoder{l: NewLedger(currency), migrations: make(map[string]struct{})}
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var jt jtransaction
		if err := json.Unmarshal(line, &jt); err != nil {
			return nil, fmt.Errorf("line %d: not a transaction: %w", n, err)
		}
		tx, err := d.transaction(jt)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read transactions: %w", err)
	}
	return txs, nil
}

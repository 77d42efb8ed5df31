package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type Category string

const (
	CategoryExternal   Category = "external"
	CategoryInternal   Category = "internal"
	CategoryERC20      Category = "erc20"
	CategoryERC721     Category = "erc721"
	CategoryERC1155    Category = "erc1155"
	CategorySpecialNFT Category = "specialnft"
)

var categories = []Category{
	CategoryExternal,
	CategoryInternal,
	CategoryERC20,
	CategoryERC721,
	CategoryERC1155,
	CategorySpecialNFT,
}

type TransferMetadata struct {
	BlockTimestamp string `json:"blockTimestamp"`
}

// Transfer is one asset transfer as returned by alchemy_getAssetTransfers.
type Transfer struct {
	UniqueID string           `json:"uniqueId"`
	Hash     string           `json:"hash"`
	BlockNum string           `json:"blockNum"`
	From     string           `json:"from"`
	To       string           `json:"to"`
	Value    *float64         `json:"value"`
	Asset    *string          `json:"asset"`
	Category Category         `json:"category"`
	Metadata TransferMetadata `json:"metadata"`
}

// TransferSource hands out a fresh snapshot of transfers on every call.
type TransferSource interface {
	Transfers() ([]Transfer, error)
}

type fileSource struct {
	path string
}

func (s fileSource) Transfers() ([]Transfer, error) {
	return LoadTransfers(s.path)
}

func LoadTransfers(path string) ([]Transfer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transfers: %w", err)
	}
	defer f.Close()

	transfers, err := DecodeTransfers(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return transfers, nil
}

// DecodeTransfers accepts either a bare JSON array of transfers or a
// getAssetTransfers response with a "transfers" field.
func DecodeTransfers(r io.Reader) ([]Transfer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read transfers: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var transfers []Transfer
	if data[0] == '[' {
		if err := json.Unmarshal(data, &transfers); err != nil {
			return nil, fmt.Errorf("decode transfers: %w", err)
		}
		return transfers, nil
	}

	var response struct {
		Transfers []Transfer `json:"transfers"`
		Result    *struct {
			Transfers []Transfer `json:"transfers"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("decode transfers: %w", err)
	}
	if response.Result != nil {
		return response.Result.Transfers, nil
	}
	return response.Transfers, nil
}

// TransferGroups maps a counterparty to its transfers and remembers the
// order in which counterparties were first seen.
type TransferGroups struct {
	order []string
	byKey map[string][]Transfer
}

// GroupByCounterparty keys transfers by their sender.
func GroupByCounterparty(transfers []Transfer) *TransferGroups {
	g := &TransferGroups{byKey: map[string][]Transfer{}}
	for _, t := range transfers {
		if _, ok := g.byKey[t.From]; !ok {
			g.order = append(g.order, t.From)
		}
		g.byKey[t.From] = append(g.byKey[t.From], t)
	}
	return g
}

func (g *TransferGroups) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

func (g *TransferGroups) Keys() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.order...)
}

func (g *TransferGroups) Get(counterparty string) []Transfer {
	if g == nil {
		return nil
	}
	return g.byKey[counterparty]
}

// Summary counts counterparties and transfers per category.
type Summary struct {
	Addresses  int
	Transfers  int
	ByCategory map[Category]int
}

func Summarize(g *TransferGroups) Summary {
	s := Summary{ByCategory: map[Category]int{}}
	for _, key := range g.Keys() {
		s.Addresses++
		for _, t := range g.Get(key) {
			s.Transfers++
			s.ByCategory[t.Category]++
		}
	}
	return s
}

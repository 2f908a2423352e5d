package cart

import (
	"github.com/shopspring/decimal"
)

// 永続化フォーマットのバージョン
const StateVersion = 1

// 1明細あたりの数量の上限。合計がintを溢れないようにする。
const MaxQuantity = 999

// カートに入れる時点の商品スナップショット
type ProductRef struct {
	ID    string
	Name  string
	Slug  string
	Price decimal.Decimal
	Image string
}

// カートの明細。IDは商品IDそのもの（明細IDは持たない）。
// Name/Slug/Price/Imageは最初に追加した時点の値のまま。
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
	Quantity int             `json:"quantity"`
}

// 小計（単価×数量）
func (it LineItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// カートの状態。合計値は保存せず毎回計算する。
type State struct {
	Items []LineItem
}

func (s State) TotalItems() int {
	total := 0
	for _, it := range s.Items {
		total += it.Quantity
	}
	return total
}

func (s State) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (s State) indexOf(id string) int {
	for i, it := range s.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// 呼び出し側が中身を書き換えても影響しないようにコピーを返す
func (s State) clone() State {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return State{Items: items}
}

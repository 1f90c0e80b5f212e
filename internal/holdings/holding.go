package holdings

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotInformed is the label substituted for missing institution, class
// and asset name cells.
const NotInformed = "Não informado"

// Holding is one row of the canonical table: a dated position held at
// an institution. Every holding has a valid date and a numeric amount;
// rows that cannot produce both never reach the canonical set.
type Holding struct {
	Date        time.Time
	Amount      decimal.Decimal
	Institution string
	AssetClass  string
	AssetName   string
}

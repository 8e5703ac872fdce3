// Package taxonomy loads the immutable category table every transaction is classified against.
package taxonomy

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/core/domain"
)

//go:embed categories.yaml
var embeddedCategories []byte

type document struct {
	Version    int               `yaml:"version"`
	Categories []domain.Category `yaml:"categories"`
}

// Taxonomy is a read-only lookup over the category table. It is safe for concurrent use.
type Taxonomy struct {
	version int
	ordered []domain.Category
	byName  map[string]domain.Category
}

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Default returns the taxonomy compiled into the binary. It panics if the embedded table is invalid,
// which can only happen through a bad edit of categories.yaml.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		t, err := Load(embeddedCategories)
		if err != nil {
			panic(fmt.Sprintf("taxonomy: embedded categories.yaml is invalid: %v", err))
		}
		defaultTax = t
	})
	return defaultTax
}

// Load parses and validates a taxonomy document.
func Load(data []byte) (*Taxonomy, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("%w: taxonomy has no categories", apperrors.ErrValidation)
	}

	t := &Taxonomy{
		version: doc.Version,
		ordered: make([]domain.Category, 0, len(doc.Categories)),
		byName:  make(map[string]domain.Category, len(doc.Categories)),
	}
	for i, c := range doc.Categories {
		if c.AmountSign == "" {
			c.AmountSign = domain.SignAny
		}
		if err := validate(c); err != nil {
			return nil, fmt.Errorf("category #%d (%q): %w", i, c.Name, err)
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: category %q declared twice", apperrors.ErrDuplicate, c.Name)
		}
		t.byName[c.Name] = c
		t.ordered = append(t.ordered, c)
	}
	return t, nil
}

func validate(c domain.Category) error {
	if strings.TrimSpace(c.Name) == "" || c.Group == "" {
		return fmt.Errorf("%w: name and group are required", apperrors.ErrValidation)
	}
	switch c.LedgerEffect {
	case domain.EffectCash, domain.EffectBank, domain.EffectNone, domain.EffectCashOutBankIn, domain.EffectCashInBankOut:
	default:
		return fmt.Errorf("%w: unknown ledgerEffect %q", apperrors.ErrValidation, c.LedgerEffect)
	}
	switch c.RelevantTo {
	case domain.RelevantCustomer, domain.RelevantLender, domain.RelevantNone:
	default:
		return fmt.Errorf("%w: unknown relevantTo %q", apperrors.ErrValidation, c.RelevantTo)
	}
	switch c.NatureHint {
	case domain.NatureIncome, domain.NatureExpense, domain.NatureReceivableIncrease, domain.NatureReceivableDecrease,
		domain.NaturePayableIncrease, domain.NaturePayableDecrease, domain.NatureNeutral:
	default:
		return fmt.Errorf("%w: unknown natureHint %q", apperrors.ErrValidation, c.NatureHint)
	}
	switch c.AmountSign {
	case domain.SignPositive, domain.SignNegative, domain.SignNonZero, domain.SignAny:
	default:
		return fmt.Errorf("%w: unknown amountSign %q", apperrors.ErrValidation, c.AmountSign)
	}
	switch c.StockMovement {
	case domain.MovementNone, domain.MovementSale, domain.MovementPurchase, domain.MovementReturnFromCustomer,
		domain.MovementReturnToSupplier, domain.MovementStockIncrease, domain.MovementStockDecrease:
	default:
		return fmt.Errorf("%w: unknown stockMovement %q", apperrors.ErrValidation, c.StockMovement)
	}
	if c.IsProductSale && c.IsProductPurchase {
		return fmt.Errorf("%w: category cannot be both a product sale and a product purchase", apperrors.ErrValidation)
	}
	return nil
}

// Version is the taxonomy revision number declared in the document.
func (t *Taxonomy) Version() int {
	return t.version
}

// Lookup returns the category with the exact given name.
func (t *Taxonomy) Lookup(name string) (domain.Category, error) {
	c, ok := t.byName[name]
	if !ok {
		return domain.Category{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownCategory, name)
	}
	return c, nil
}

// All returns every category in declaration order. The slice is a copy.
func (t *Taxonomy) All() []domain.Category {
	out := make([]domain.Category, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// NamesInGroups returns the names of all categories belonging to any of the given groups.
func (t *Taxonomy) NamesInGroups(groups ...string) []string {
	want := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		want[g] = struct{}{}
	}
	var names []string
	for _, c := range t.ordered {
		if _, ok := want[c.Group]; ok {
			names = append(names, c.Name)
		}
	}
	return names
}

// Resolve finds the category for a structured key, e.g. {"Sale to Customer", credit}.
func (t *Taxonomy) Resolve(key domain.CategoryKey) (domain.Category, error) {
	return t.Lookup(FormatKey(key))
}

var modeSuffixes = []struct {
	suffix string
	mode   domain.PaymentMode
}{
	{" (Cash)", domain.ModeCash},
	{" (Bank)", domain.ModeBank},
	{" (Credit)", domain.ModeCredit},
}

// ParseKey splits a category name into its base and payment mode. Names without a
// recognised mode suffix map to ModeNone with the full name as base.
func ParseKey(name string) domain.CategoryKey {
	for _, s := range modeSuffixes {
		if base, ok := strings.CutSuffix(name, s.suffix); ok {
			return domain.CategoryKey{Base: base, PaymentMode: s.mode}
		}
	}
	return domain.CategoryKey{Base: name, PaymentMode: domain.ModeNone}
}

// FormatKey is the inverse of ParseKey.
func FormatKey(key domain.CategoryKey) string {
	for _, s := range modeSuffixes {
		if s.mode == key.PaymentMode {
			return key.Base + s.suffix
		}
	}
	return key.Base
}

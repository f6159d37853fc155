package engine

import (
	"testing"

	"example.com/travel-quote-planner/backend/internal/models"
)

// TestMaskAmountCents проверяет маскирование суммы с сохранением разрядности.
func TestMaskAmountCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "1***"},
		{90001, "9****"},
		{10, "1*"},
		{7, "7"},
		{0, "0"},
	}

	for _, tc := range cases {
		if got := MaskAmountCents(tc.cents); got != tc.want {
			t.Fatalf("MaskAmountCents(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

// TestCanSeeRealPriceOwner проверяет, что владелец всегда видит свою цену.
func TestCanSeeRealPriceOwner(t *testing.T) {
	alice := models.Viewer{Username: "alice", Role: models.RoleStandard}

	private := models.ResourceRecord{OwnerUsername: strPtr("alice")}
	public := models.ResourceRecord{OwnerUsername: strPtr("alice"), IsPublic: true}

	if !CanSeeRealPrice(alice, private) || !CanSeeRealPrice(alice, public) {
		t.Fatal("expected owner to see real price of own records")
	}
}

// TestCanSeeRealPriceRoles проверяет раскрытие цен по ролям.
func TestCanSeeRealPriceRoles(t *testing.T) {
	standard := models.Viewer{Username: "bob", Role: models.RoleStandard}
	admin := models.Viewer{Username: "carol", Role: models.RoleAdmin}
	super := models.Viewer{Username: "root", Role: models.RoleSuperAdmin}

	legacy := models.ResourceRecord{}
	public := models.ResourceRecord{OwnerUsername: strPtr("alice"), IsPublic: true}
	private := models.ResourceRecord{OwnerUsername: strPtr("alice")}

	if CanSeeRealPrice(standard, legacy) || CanSeeRealPrice(standard, public) {
		t.Fatal("expected standard member not to see foreign real prices")
	}
	if !CanSeeRealPrice(admin, legacy) || !CanSeeRealPrice(admin, public) {
		t.Fatal("expected admin to see legacy and public real prices")
	}
	if CanSeeRealPrice(admin, private) {
		t.Fatal("expected admin not to see someone else's private price")
	}
	if !CanSeeRealPrice(super, private) {
		t.Fatal("expected super_admin to see any price")
	}
}

// TestShouldMaskCategory проверяет маскирование итога категории в смете.
func TestShouldMaskCategory(t *testing.T) {
	standard := models.Viewer{Username: "bob", Role: models.RoleStandard}
	admin := models.Viewer{Username: "carol", Role: models.RoleAdmin}

	mixed := []models.SelectionItem{
		{Name: "museum", Quantity: 2, UnitPriceCents: 300},
		{Name: "palace", Quantity: 2, UnitPriceCents: 317, SourceIsPublic: true},
	}
	private := []models.SelectionItem{
		{Name: "museum", Quantity: 2, UnitPriceCents: 300},
	}

	if !ShouldMaskCategory(standard, mixed) {
		t.Fatal("expected masking for standard viewer with public-sourced item")
	}
	if ShouldMaskCategory(standard, private) {
		t.Fatal("expected no masking without public-sourced items")
	}
	if ShouldMaskCategory(admin, mixed) {
		t.Fatal("expected no masking for admin viewer")
	}
}

// TestQuoteSheetMaskingScenario проверяет сценарий сметы из двух ролей.
func TestQuoteSheetMaskingScenario(t *testing.T) {
	items := []models.SelectionItem{
		{Name: "palace", Quantity: 1, UnitPriceCents: 1234, SourceIsPublic: true},
	}
	total := CategoryTotalCents(items)

	standard := models.Viewer{Username: "bob", Role: models.RoleStandard}
	if !ShouldMaskCategory(standard, items) {
		t.Fatal("expected standard viewer total to be masked")
	}
	if got := MaskAmountCents(total); got != "1***" {
		t.Fatalf("expected masked total 1***, got %q", got)
	}

	admin := models.Viewer{Username: "carol", Role: models.RoleAdmin}
	if ShouldMaskCategory(admin, items) {
		t.Fatal("expected admin viewer to see real total")
	}
	if total != 1234 {
		t.Fatalf("expected real total 1234, got %d", total)
	}
}

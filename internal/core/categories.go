package core

// FallbackCategoryID is the display category used when a transaction
// references a category that no longer exists.
const FallbackCategoryID = "outros"

// DefaultCategories returns the nine categories every fresh ledger is
// seeded with. They cannot be deleted.
func DefaultCategories() []Category {
	return []Category{
		{ID: "alimentacao", Name: "Alimentação", Color: "#FF9800", Icon: "🍔", Default: true},
		{ID: "transporte", Name: "Transporte", Color: "#2196F3", Icon: "🚗", Default: true},
		{ID: "moradia", Name: "Moradia", Color: "#9C27B0", Icon: "🏠", Default: true},
		{ID: "lazer", Name: "Lazer", Color: "#E91E63", Icon: "🎮", Default: true},
		{ID: "saude", Name: "Saúde", Color: "#4CAF50", Icon: "💊", Default: true},
		{ID: "educacao", Name: "Educação", Color: "#00BCD4", Icon: "📚", Default: true},
		{ID: "salario", Name: "Salário", Color: "#8BC34A", Icon: "💰", Default: true},
		{ID: "investimentos", Name: "Investimentos", Color: "#3F51B5", Icon: "📈", Default: true},
		{ID: "outros", Name: "Outros", Color: "#607D8B", Icon: "📦", Default: true},
	}
}

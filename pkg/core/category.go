package core

// Category groups tasks. Names are not unique: callers must address
// categories by ID only.
type Category struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Color string `json:"colorHex" validate:"required,len=7,hexcolor"`
	Icon  string `json:"iconName"`
}

// Seed category names, also used to bind the sample tasks.
const (
	CategoryReminders = "Reminders"
	CategoryPersonal  = "Personal"
	CategoryWork      = "Work"
	CategoryShopping  = "Shopping"
	CategoryHealth    = "Health"
)

// DefaultCategories returns the seed set created on first run.
// IDs are left empty; the store assigns them.
func DefaultCategories() []Category {
	return []Category{
		{Name: CategoryReminders, Color: "#007AFF", Icon: "list.bullet"},
		{Name: CategoryPersonal, Color: "#B366F3", Icon: "person.fill"},
		{Name: CategoryWork, Color: "#66B3FF", Icon: "briefcase.fill"},
		{Name: CategoryShopping, Color: "#66D980", Icon: "cart.fill"},
		{Name: CategoryHealth, Color: "#FF6680", Icon: "heart.fill"},
	}
}

// FindCategoryByName returns the first category with the given name.
func FindCategoryByName(categories []Category, name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

package shared

// Role của user
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor là viewer của request. Anonymous khi UserID == 0
type Actor struct {
	UserID int64
	Role   string
}

// Anonymous trả về viewer chưa đăng nhập
func Anonymous() Actor { return Actor{} }

func (a Actor) IsAuthenticated() bool { return a.UserID != 0 }

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// RecipeShort là dạng rút gọn của recipe (favorite/cart/subscriptions)
type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// Asynq task types
const (
	TypeProcessRecipeImage = "recipe:process_image"
	TypeDeleteRecipeImages = "recipe:delete_images"
	TypeSweepOrphanImages  = "recipe:sweep_orphan_images"
)

// Asynq queues
const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// RecipeImagePayload: payload cho cả process và delete
type RecipeImagePayload struct {
	RecipeID int64  `json:"recipe_id"`
	Prefix   string `json:"prefix"`
	Key      string `json:"key,omitempty"`
}

package admin_model

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Account 后台登录账号，USER 角色通过 UserID 关联客户
type Account struct {
	Base
	Username     string  `json:"username" gorm:"column:username;type:varchar(64);uniqueIndex"`
	PasswordHash string  `json:"-" gorm:"column:password_hash;type:varchar(100)"`
	Role         string  `json:"role" gorm:"column:role;type:varchar(16);default:USER"`
	UserID       *string `json:"userId" gorm:"column:user_id;type:varchar(36);index"`
	Enabled      bool    `json:"enabled" gorm:"column:enabled;default:true"`
}

func (Account) TableName() string {
	return "accounts"
}

// ValidRole 角色是否合法
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

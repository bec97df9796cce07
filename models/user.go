package models

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmrentals/rentdesk_backend/config"
	"github.com/mmrentals/rentdesk_backend/utils"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     *string   `gorm:"size:100;unique" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	ImageUrl  string    `json:"image_url"`
	Password  string    `gorm:"size:255;not null" json:"password"`
	IsActive  *bool     `gorm:"not null" json:"is_active"`
	Role      UserRole  `gorm:"type:enum('admin', 'staff', 'tenant');default:staff" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string   `json:"username" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	ImageUrl string   `json:"image_url"`
	Password string   `json:"password" binding:"required"`
	IsActive *bool    `json:"is_active" binding:"required"`
	Role     UserRole `json:"role" binding:"required"`
}

/*
caches:
	User:$username
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + user.Username)
}

type LoginInfo struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

func tokenLifespan() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// Login authenticates a back-office account and issues an opaque
// session token kept in redis. Tenant portal accounts use TenantLogin.
func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var result LoginInfo

	user := User{}

	// get User info
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return &result, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
		if err != nil {
			return &result, utils.UnauthorizedError("invalid username or password")
		}
	}

	// check login credentials; any comparison failure denies, not just a
	// mismatch (a malformed stored hash must never authenticate)
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return &result, utils.UnauthorizedError("invalid username or password")
	}

	if user.IsActive == nil || !*user.IsActive {
		return &result, utils.UnauthorizedError("user is disabled")
	}
	if user.Role == UserRoleTenant {
		return &result, utils.ForbiddenError("tenant accounts use the tenant login")
	}

	// generate token & response
	token := uuid.New()
	result.Token = token.String()
	result.Name = user.Username
	result.Role = string(user.Role)

	lifespan := tokenLifespan()

	// add new token to the user's tokens set
	if err := config.AddRedisSet("Tokens:"+user.Username, token.String()); err != nil {
		return nil, err
	}
	if err := config.SetRedisValue("Token:"+token.String(), user.Username, lifespan); err != nil {
		return &result, err
	}
	if !exists {
		if err := config.SetRedisObject("User:"+user.Username, &user, lifespan); err != nil {
			return &result, err
		}
	}

	return &result, nil
}

// TenantLogin authenticates a tenant portal account and issues a JWT.
// Tenant sessions are stateless; revocation happens by disabling the
// account.
func TenantLogin(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).Model(&User{}).
		Where("username = ? AND role = ?", username, UserRoleTenant).
		Take(&user).Error
	if err != nil {
		return nil, utils.UnauthorizedError("invalid username or password")
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, utils.UnauthorizedError("invalid username or password")
	}
	if user.IsActive == nil || !*user.IsActive {
		return nil, utils.UnauthorizedError("user is disabled")
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &LoginInfo{Token: token, Name: user.Username, Role: string(user.Role)}, nil
}

// GetUserByUsername serves the session middleware: redis cache first,
// DB on miss, caching the row for the token lifespan.
func GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return nil, err
	}
	if exists {
		return &user, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := config.SetRedisObject("User:"+username, &user, tokenLifespan()); err != nil {
		return nil, err
	}
	return &user, nil
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	err := config.RemoveRedisKey("Token:" + fmt.Sprint(token))
	if err != nil {
		return false, nil
	}
	// remove current token from tokens list
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		return false, errors.New("user not found")
	}
	if err := config.RemoveRedisSetMember("Tokens:"+username, token); err != nil {
		return false, err
	}
	return true, nil
}

func GetAllUsers(ctx context.Context) ([]*User, error) {

	db := config.GetDB()
	var results []*User

	if err := db.WithContext(ctx).Find(&results).Error; err != nil {
		return results, errors.New("no user")
	}

	for i, u := range results {
		u.Password = ""
		results[i] = u
	}

	return results, nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	db := config.GetDB()
	var count int64

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, utils.ValidationError("invalid email address")
	}
	if !input.Role.Valid() {
		return nil, utils.ValidationError("invalid user role")
	}

	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", input.Username).Or("email = ?", input.Email).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ConflictError("duplicate username or email")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	input.Email = strings.ToLower(input.Email)

	user := User{
		Username: html.EscapeString(strings.TrimSpace(input.Username)),
		Name:     input.Name,
		Email:    utils.NilIfEmpty(input.Email),
		Phone:    input.Phone,
		ImageUrl: input.ImageUrl,
		Password: string(hashedPassword),
		IsActive: input.IsActive,
		Role:     input.Role,
	}

	err = db.WithContext(ctx).Create(&user).Error
	if err != nil {
		if config.IsDuplicateEntry(err) {
			return nil, utils.ConflictError("duplicate username or email")
		}
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	result, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}
	result.PrepareGive()
	return result, nil
}

// UserUpdate changes profile, role and active flag. Passwords move
// only through ChangePassword.
type UserUpdate struct {
	Username string   `json:"username" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	ImageUrl string   `json:"image_url"`
	IsActive *bool    `json:"is_active" binding:"required"`
	Role     UserRole `json:"role" binding:"required"`
}

func UpdateUser(ctx context.Context, id int, input *UserUpdate) (*User, error) {

	existing, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, utils.ValidationError("invalid email address")
	}
	if !input.Role.Valid() {
		return nil, utils.ValidationError("invalid user role")
	}

	db := config.GetDB()
	var count int64
	if err = db.WithContext(ctx).Model(&User{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Not("id = ?", id).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ConflictError("duplicate username or email")
	}

	existing.Username = html.EscapeString(strings.TrimSpace(input.Username))
	existing.Name = input.Name
	existing.Email = utils.NilIfEmpty(strings.ToLower(input.Email))
	existing.Phone = input.Phone
	existing.ImageUrl = input.ImageUrl
	existing.IsActive = input.IsActive
	existing.Role = input.Role

	if err := db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	// stale role/active caches would outlive the change
	if err := existing.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	existing.PrepareGive()
	return existing, nil
}

// DeleteUser removes an account. Users may not delete themselves.
func DeleteUser(ctx context.Context, id int) (*User, error) {

	if callerId, ok := utils.GetUserIdFromContext(ctx); ok && callerId == id {
		return nil, utils.ConflictError("cannot delete your own account")
	}

	existing, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(existing).Error; err != nil {
		return nil, err
	}
	if err := existing.DestroyAllSessions(ctx); err != nil {
		return nil, err
	}
	if err := existing.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	existing.PrepareGive()
	return existing, nil
}

func (user *User) DestroyAllSessions(ctx context.Context) error {
	allTokens, err := config.GetRedisSetMembers("Tokens:" + user.Username)
	if err != nil {
		return err
	}
	for _, token := range allTokens {
		if err := config.RemoveRedisKey("Token:" + token); err != nil {
			return err
		}
	}
	if err := config.RemoveRedisKey("Tokens:" + user.Username); err != nil {
		return err
	}

	return nil
}

func ChangePassword(ctx context.Context, oldPassword string, newPassword string) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.UnauthorizedError("not logged in")
	}

	var user User
	db := config.GetDB()
	if err := db.WithContext(ctx).First(&user, userId).Error; err != nil {
		return nil, err
	}
	// check oldPassword
	if err := utils.ComparePassword(user.Password, oldPassword); err != nil {
		return nil, utils.UnauthorizedError("old password is wrong")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&user).UpdateColumn("password", string(hashedPassword)).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := config.RemoveRedisKey("User:" + user.Username); err != nil {
		tx.Rollback()
		return nil, err
	}

	// destroying all session tokens
	if err := user.DestroyAllSessions(ctx); err != nil {
		tx.Rollback()
		return nil, err
	}

	return &user, tx.Commit().Error
}

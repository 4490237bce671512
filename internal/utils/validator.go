package utils

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// HashPassword 使用 bcrypt 对密码进行哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword 验证密码
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidateUsername 验证用户名格式（3-20个字符，字母数字下划线）
func ValidateUsername(username string) bool {
	if len(username) < 3 || len(username) > 20 {
		return false
	}
	return usernameRe.MatchString(username)
}

// ValidateEmail 验证邮箱格式
func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidatePassword 验证密码强度（至少8个字符）
func ValidatePassword(password string) bool {
	return len(password) >= 8
}

// ValidateRating 验证评分范围（0-10）
func ValidateRating(rating float64) bool {
	return rating >= 0 && rating <= 10
}

// GenerateInviteCode 生成邀请码（6位随机字符串）
func GenerateInviteCode() string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%d%d", time.Now().Unix(), time.Now().Nanosecond())))
	code := fmt.Sprintf("%x", hash)
	return strings.ToUpper(code[:6])
}

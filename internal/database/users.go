package database

import (
	"context"
	"fmt"
)

// FindUserByUsername 按用户名查找账号，未命中返回 gorm.ErrRecordNotFound。
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByID 按主键查找账号。
func (s *Store) FindUserByID(ctx context.Context, id string) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser 写入新账号。
func (s *Store) CreateUser(ctx context.Context, user *User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateUserPassword 覆盖账号的密码哈希。
func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	if err := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("password_hash", passwordHash).Error; err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return nil
}

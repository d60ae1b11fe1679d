package repository

import (
	"gamehub_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// SetDeveloperApproved 管理员为开发者账号授予/撤销投稿资质
func (r *UserRepository) SetDeveloperApproved(userID uint, approved bool) error {
	res := r.DB.Model(&model.User{}).
		Where("id = ? AND role = ?", userID, model.Developer).
		Update("developer_approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DisplayInfo 审核队列展示用，仅取姓名与邮箱
func (r *UserRepository) DisplayInfo(userID uint) (model.OwnerInfo, error) {
	var user model.User
	err := r.DB.Select("name", "email").First(&user, userID).Error
	if err != nil {
		return model.OwnerInfo{}, err
	}
	return model.OwnerInfo{Name: user.Name, Email: user.Email}, nil
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).
		Error
}

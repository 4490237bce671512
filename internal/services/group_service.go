package services

import (
	"errors"
	"time"

	"github.com/scenestack/scenestack/internal/models"
	"github.com/scenestack/scenestack/internal/repositories"
	"github.com/scenestack/scenestack/internal/utils"
)

// GroupService 群组服务
type GroupService struct {
	groupRepo *repositories.GroupRepository
	userRepo  *repositories.UserRepository
	feed      *FeedPublisher
}

// NewGroupService 创建群组服务实例
func NewGroupService(groupRepo *repositories.GroupRepository, userRepo *repositories.UserRepository, feed *FeedPublisher) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		feed:      feed,
	}
}

// CreateGroupRequest 创建群组请求
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GroupDTO 群组数据传输对象
type GroupDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedByID uint   `json:"created_by_id"`
	InviteCode  string `json:"invite_code"`
	MemberCount int    `json:"member_count"`
	CreatedAt   string `json:"created_at"`
}

// GroupMemberDTO 群组成员数据传输对象
type GroupMemberDTO struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	Role      string `json:"role"`
	IsPremium bool   `json:"is_premium"`
	JoinedAt  string `json:"joined_at"`
}

func toGroupDTO(group *models.Group, memberCount int) *GroupDTO {
	return &GroupDTO{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		CreatedByID: group.CreatedByID,
		InviteCode:  group.InviteCode,
		MemberCount: memberCount,
		CreatedAt:   group.CreatedAt.Format(time.RFC3339),
	}
}

// CreateGroup 创建群组
func (s *GroupService) CreateGroup(creatorID uint, req *CreateGroupRequest) (*GroupDTO, error) {
	if len(req.Name) < 1 || len(req.Name) > 50 {
		return nil, errors.New("group name length invalid")
	}

	creator, err := s.userRepo.GetByID(creatorID)
	if err != nil || !creator.Active() {
		return nil, ErrUserNotFound
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		CreatedByID: creatorID,
		InviteCode:  utils.GenerateInviteCode(),
	}

	if err := s.groupRepo.CreateWithCreator(group); err != nil {
		return nil, err
	}

	return toGroupDTO(group, 1), nil
}

// GetGroup 获取群组详情（含成员列表，调用者必须是成员）
// Member listings apply the account visibility predicate: deleted and
// deactivated accounts never show up even though their rows remain.
func (s *GroupService) GetGroup(userID, groupID uint) (*GroupDTO, []GroupMemberDTO, error) {
	if _, err := s.groupRepo.GetMember(groupID, userID); err != nil {
		return nil, nil, ErrNotMember
	}

	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		return nil, nil, ErrGroupNotFound
	}

	members, err := s.groupRepo.ListMembers(groupID)
	if err != nil {
		return nil, nil, err
	}

	dtos := make([]GroupMemberDTO, 0, len(members))
	for _, m := range members {
		if m.User == nil || !m.User.Active() {
			continue
		}
		dtos = append(dtos, GroupMemberDTO{
			UserID:    m.UserID,
			Username:  m.User.Username,
			Nickname:  m.User.Nickname,
			Role:      m.Role,
			IsPremium: m.User.IsPremium,
			JoinedAt:  m.JoinedAt.Format(time.RFC3339),
		})
	}

	return toGroupDTO(group, len(members)), dtos, nil
}

// ListMine 获取用户所在的群组列表
func (s *GroupService) ListMine(userID uint, limit, offset int) ([]GroupDTO, int64, error) {
	groups, total, err := s.groupRepo.ListByMember(userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]GroupDTO, 0, len(groups))
	for i := range groups {
		count, err := s.groupRepo.CountMembers(groups[i].ID)
		if err != nil {
			return nil, 0, err
		}
		dtos = append(dtos, *toGroupDTO(&groups[i], int(count)))
	}
	return dtos, total, nil
}

// Join 通过邀请码加入群组
func (s *GroupService) Join(userID uint, inviteCode string) (*GroupDTO, error) {
	group, err := s.groupRepo.GetByInviteCode(inviteCode)
	if err != nil {
		return nil, ErrGroupNotFound
	}

	if _, err := s.groupRepo.GetMember(group.ID, userID); err == nil {
		return nil, ErrAlreadyMember
	}

	member := &models.GroupMember{
		GroupID:  group.ID,
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
	}
	if err := s.groupRepo.AddMember(member); err != nil {
		return nil, err
	}

	if err := s.groupRepo.AppendHistory(&models.GroupMemberHistory{
		GroupID:   group.ID,
		ActorID:   userID,
		SubjectID: userID,
		Action:    models.HistoryJoined,
	}); err != nil {
		return nil, err
	}

	s.feed.Publish(models.FeedMemberJoined, group.ID, userID, map[string]any{"group_name": group.Name})

	count, err := s.groupRepo.CountMembers(group.ID)
	if err != nil {
		return nil, err
	}
	return toGroupDTO(group, int(count)), nil
}

// Leave 退出群组
// The creator cannot walk away while other members remain; ownership must be
// transferred (or the group deleted) first, which keeps the one-creator
// invariant intact.
func (s *GroupService) Leave(userID, groupID uint) error {
	member, err := s.groupRepo.GetMember(groupID, userID)
	if err != nil {
		return ErrNotMember
	}

	if member.Role == models.RoleCreator {
		count, err := s.groupRepo.CountMembers(groupID)
		if err != nil {
			return err
		}
		if count > 1 {
			return errors.New("creator cannot leave a group with other members")
		}
		// Last member out: the group goes with them.
		if err := s.groupRepo.DeleteCascade(groupID); err != nil {
			return err
		}
		return s.groupRepo.AppendHistory(&models.GroupMemberHistory{
			GroupID:   groupID,
			ActorID:   userID,
			SubjectID: userID,
			Action:    models.HistoryDeleted,
			Detail:    "creator left an empty group",
		})
	}

	if err := s.groupRepo.RemoveMember(groupID, userID); err != nil {
		return err
	}
	return s.groupRepo.AppendHistory(&models.GroupMemberHistory{
		GroupID:   groupID,
		ActorID:   userID,
		SubjectID: userID,
		Action:    models.HistoryLeft,
	})
}

// Kick 将成员移出群组（需要 admin 或 creator 权限）
func (s *GroupService) Kick(actorID, groupID, subjectID uint) error {
	actor, err := s.groupRepo.GetMember(groupID, actorID)
	if err != nil {
		return ErrNotMember
	}
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleCreator {
		return &AuthorizationError{}
	}

	subject, err := s.groupRepo.GetMember(groupID, subjectID)
	if err != nil {
		return ErrNotMember
	}
	if subject.Role == models.RoleCreator {
		return &AuthorizationError{}
	}
	// Admins cannot kick other admins.
	if actor.Role == models.RoleAdmin && subject.Role == models.RoleAdmin {
		return &AuthorizationError{}
	}

	if err := s.groupRepo.RemoveMember(groupID, subjectID); err != nil {
		return err
	}
	return s.groupRepo.AppendHistory(&models.GroupMemberHistory{
		GroupID:   groupID,
		ActorID:   actorID,
		SubjectID: subjectID,
		Action:    models.HistoryKicked,
	})
}

// SetMemberRole 提升/降级管理员（仅 creator）
func (s *GroupService) SetMemberRole(actorID, groupID, subjectID uint, role string) error {
	if role != models.RoleAdmin && role != models.RoleMember {
		return errors.New("role must be admin or member")
	}

	actor, err := s.groupRepo.GetMember(groupID, actorID)
	if err != nil {
		return ErrNotMember
	}
	if actor.Role != models.RoleCreator {
		return &AuthorizationError{}
	}

	subject, err := s.groupRepo.GetMember(groupID, subjectID)
	if err != nil {
		return ErrNotMember
	}
	if subject.Role == models.RoleCreator {
		return &AuthorizationError{}
	}
	if subject.Role == role {
		return nil
	}

	if err := s.groupRepo.UpdateMemberRole(groupID, subjectID, role); err != nil {
		return err
	}

	action := models.HistoryPromoted
	if role == models.RoleMember {
		action = models.HistoryDemoted
	}
	return s.groupRepo.AppendHistory(&models.GroupMemberHistory{
		GroupID:   groupID,
		ActorID:   actorID,
		SubjectID: subjectID,
		Action:    action,
		Detail:    "role set to " + role,
	})
}

// HistoryEntryDTO 审计记录数据传输对象
type HistoryEntryDTO struct {
	ActorID   uint   `json:"actor_id"`
	SubjectID uint   `json:"subject_id"`
	Action    string `json:"action"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

// History 获取群组审计记录（调用者必须是成员）
func (s *GroupService) History(userID, groupID uint, limit, offset int) ([]HistoryEntryDTO, error) {
	if _, err := s.groupRepo.GetMember(groupID, userID); err != nil {
		return nil, ErrNotMember
	}

	entries, err := s.groupRepo.ListHistory(groupID, limit, offset)
	if err != nil {
		return nil, err
	}

	dtos := make([]HistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, HistoryEntryDTO{
			ActorID:   e.ActorID,
			SubjectID: e.SubjectID,
			Action:    e.Action,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return dtos, nil
}

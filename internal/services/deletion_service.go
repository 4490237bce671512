package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/scenestack/scenestack/internal/models"
	"github.com/scenestack/scenestack/internal/repositories"
	"github.com/scenestack/scenestack/internal/utils"
)

// Policies for the outgoing creator's membership after a transfer.
const (
	OutgoingCreatorAdmin  = "admin"  // demote to admin, keep the membership
	OutgoingCreatorRemove = "remove" // drop the membership entirely
)

// DeletionService orchestrates permanent account deletion: it reports which
// created groups need a decision, validates and stages the decision batch,
// and finally applies the batch and the account tombstone in one
// all-or-nothing transaction.
type DeletionService struct {
	userRepo  *repositories.UserRepository
	groupRepo *repositories.GroupRepository
	staged    *StagedActionStore
	feed      *FeedPublisher

	// outgoingCreatorRole is OutgoingCreatorAdmin or OutgoingCreatorRemove.
	outgoingCreatorRole string
}

// NewDeletionService 创建账号删除服务实例
func NewDeletionService(
	userRepo *repositories.UserRepository,
	groupRepo *repositories.GroupRepository,
	staged *StagedActionStore,
	feed *FeedPublisher,
	outgoingCreatorRole string,
) *DeletionService {
	if outgoingCreatorRole != OutgoingCreatorRemove {
		outgoingCreatorRole = OutgoingCreatorAdmin
	}
	return &DeletionService{
		userRepo:            userRepo,
		groupRepo:           groupRepo,
		staged:              staged,
		feed:                feed,
		outgoingCreatorRole: outgoingCreatorRole,
	}
}

// EligibleMemberDTO 可接收群组所有权的成员
type EligibleMemberDTO struct {
	UserID     uint   `json:"userId"`
	Username   string `json:"username"`
	IsPremium  bool   `json:"isPremium"`
	IsAdmin    bool   `json:"isAdmin"`
	IsEligible bool   `json:"isEligible"`
}

// CreatedGroupDTO 删除流程中一个待处置的群组
type CreatedGroupDTO struct {
	GroupID         uint                `json:"groupId"`
	GroupName       string              `json:"groupName"`
	MemberCount     int                 `json:"memberCount"`
	EligibleMembers []EligibleMemberDTO `json:"eligibleMembers"`
	CanTransfer     bool                `json:"canTransfer"`
	AutoDelete      bool                `json:"autoDelete"`
}

// eligibility annotates the other members of one group relative to a
// departing user. Premium members take precedence: while at least one active
// premium member exists, only premium members are eligible; otherwise any
// remaining active member is.
type eligibility struct {
	members     []models.GroupMember
	eligible    map[uint]bool
	canTransfer bool
}

func computeEligibility(members []models.GroupMember, departingID uint) eligibility {
	e := eligibility{
		members:  members,
		eligible: make(map[uint]bool),
	}

	premiumExists := false
	for _, m := range members {
		if m.UserID == departingID || m.User == nil || !m.User.Active() {
			continue
		}
		if m.User.IsPremium {
			premiumExists = true
		}
	}

	for _, m := range members {
		if m.UserID == departingID || m.User == nil || !m.User.Active() {
			continue
		}
		if !premiumExists || m.User.IsPremium {
			e.eligible[m.UserID] = true
		}
		e.canTransfer = true
	}
	return e
}

// CreatedGroupsReport 计算用户创建的每个群组的处置选项
// Groups without any transferable member (solo groups, or groups whose other
// members are all deactivated) come back with CanTransfer=false and
// AutoDelete=true: no decision is required, deletion is implied.
func (s *DeletionService) CreatedGroupsReport(userID uint) ([]CreatedGroupDTO, error) {
	groups, err := s.groupRepo.ListCreatedBy(userID)
	if err != nil {
		return nil, err
	}

	report := make([]CreatedGroupDTO, 0, len(groups))
	for _, group := range groups {
		members, err := s.groupRepo.ListMembers(group.ID)
		if err != nil {
			return nil, err
		}

		elig := computeEligibility(members, userID)

		dto := CreatedGroupDTO{
			GroupID:         group.ID,
			GroupName:       group.Name,
			MemberCount:     len(members),
			EligibleMembers: make([]EligibleMemberDTO, 0, len(members)),
			CanTransfer:     elig.canTransfer,
			AutoDelete:      !elig.canTransfer,
		}

		for _, m := range members {
			if m.UserID == userID || m.User == nil {
				continue
			}
			dto.EligibleMembers = append(dto.EligibleMembers, EligibleMemberDTO{
				UserID:     m.UserID,
				Username:   m.User.Username,
				IsPremium:  m.User.IsPremium,
				IsAdmin:    m.Role == models.RoleAdmin,
				IsEligible: elig.eligible[m.UserID],
			})
		}

		report = append(report, dto)
	}
	return report, nil
}

// validateActions checks a decision batch against the user's created groups.
// Returns the resolved action per group, including implicit deletions for
// groups that cannot be transferred. No side effects.
func (s *DeletionService) validateActions(userID uint, groups []models.Group, actions []GroupAction) (map[uint]GroupAction, error) {
	owned := make(map[uint]bool, len(groups))
	for _, g := range groups {
		owned[g.ID] = true
	}

	resolved := make(map[uint]GroupAction, len(groups))
	var problems []string

	for _, action := range actions {
		if !owned[action.GroupID] {
			// Not created by this user (or does not exist). Leak nothing.
			return nil, &AuthorizationError{}
		}
		if _, dup := resolved[action.GroupID]; dup {
			problems = append(problems, fmt.Sprintf("group %d: more than one action submitted", action.GroupID))
			continue
		}

		switch action.Action {
		case ActionDelete:
			resolved[action.GroupID] = action

		case ActionTransfer:
			if action.TransferToUserID == 0 {
				problems = append(problems, fmt.Sprintf("group %d: transfer requires a target user", action.GroupID))
				continue
			}
			members, err := s.groupRepo.ListMembers(action.GroupID)
			if err != nil {
				return nil, err
			}
			elig := computeEligibility(members, userID)
			if !elig.canTransfer {
				problems = append(problems, fmt.Sprintf("group %d: no member is eligible to receive ownership", action.GroupID))
				continue
			}
			if !elig.eligible[action.TransferToUserID] {
				return nil, &NotEligibleError{GroupID: action.GroupID, UserID: action.TransferToUserID}
			}
			resolved[action.GroupID] = action

		default:
			problems = append(problems, fmt.Sprintf("group %d: unknown action %q", action.GroupID, action.Action))
		}
	}

	// Every created group needs exactly one decision. Groups that cannot be
	// transferred default to deletion when the client omits them.
	for _, g := range groups {
		if _, ok := resolved[g.ID]; ok {
			continue
		}
		members, err := s.groupRepo.ListMembers(g.ID)
		if err != nil {
			return nil, err
		}
		if elig := computeEligibility(members, userID); elig.canTransfer {
			problems = append(problems, fmt.Sprintf("group %d: a decision is required", g.ID))
			continue
		}
		resolved[g.ID] = GroupAction{GroupID: g.ID, Action: ActionDelete}
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Messages: problems}
	}
	return resolved, nil
}

// StageActions validates a decision batch and parks it until the account
// deletion request arrives. Nothing is mutated here.
func (s *DeletionService) StageActions(ctx context.Context, userID uint, actions []GroupAction) error {
	groups, err := s.groupRepo.ListCreatedBy(userID)
	if err != nil {
		return err
	}
	if _, err := s.validateActions(userID, groups, actions); err != nil {
		return err
	}
	return s.staged.Save(ctx, userID, actions)
}

// DeleteAccount permanently deletes the account after applying the staged
// group decisions. Group mutations and the account tombstone commit in one
// transaction: either everything applies or nothing does.
func (s *DeletionService) DeleteAccount(ctx context.Context, userID uint, password string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ErrUserNotFound
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return ErrWrongPassword
	}

	groups, err := s.groupRepo.ListCreatedBy(userID)
	if err != nil {
		return err
	}

	staged, err := s.staged.Get(ctx, userID)
	if err != nil {
		return err
	}

	resolved, err := s.validateActions(userID, groups, staged)
	if err != nil {
		// The batch validated when it was staged; the world moved on.
		var validationErr *ValidationError
		var notEligibleErr *NotEligibleError
		if staged != nil && (errors.As(err, &validationErr) || errors.As(err, &notEligibleErr)) {
			return &ConflictError{Messages: []string{"staged group decisions are no longer valid, re-fetch eligibility and resubmit"}}
		}
		return err
	}

	type transferOutcome struct {
		groupID   uint
		groupName string
		toUserID  uint
	}
	var transfers []transferOutcome
	var deletions []models.Group

	err = s.groupRepo.Transaction(func(tx *gorm.DB) error {
		groupRepo := s.groupRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)

		// Re-validate inside the transaction before touching anything, so a
		// concurrent transfer or member removal rolls the whole batch up
		// into one ConflictError with per-group messages.
		var conflicts []string
		for _, g := range groups {
			action := resolved[g.ID]

			current, err := groupRepo.GetByID(g.ID)
			if err != nil || current.CreatedByID != userID {
				conflicts = append(conflicts, fmt.Sprintf("group %d: ownership changed concurrently", g.ID))
				continue
			}
			if action.Action != ActionTransfer {
				continue
			}
			members, err := groupRepo.ListMembers(g.ID)
			if err != nil {
				return err
			}
			if elig := computeEligibility(members, userID); !elig.eligible[action.TransferToUserID] {
				conflicts = append(conflicts, fmt.Sprintf("group %d: transfer target is no longer eligible", g.ID))
			}
		}
		if len(conflicts) > 0 {
			return &ConflictError{Messages: conflicts}
		}

		for _, g := range groups {
			action := resolved[g.ID]
			switch action.Action {
			case ActionDelete:
				if err := groupRepo.DeleteCascade(g.ID); err != nil {
					return err
				}
				if err := groupRepo.AppendHistory(&models.GroupMemberHistory{
					GroupID:   g.ID,
					ActorID:   userID,
					SubjectID: userID,
					Action:    models.HistoryDeleted,
					Detail:    "deleted during account removal",
				}); err != nil {
					return err
				}
				deletions = append(deletions, g)

			case ActionTransfer:
				if err := groupRepo.UpdateOwner(g.ID, action.TransferToUserID); err != nil {
					return err
				}
				if err := groupRepo.UpdateMemberRole(g.ID, action.TransferToUserID, models.RoleCreator); err != nil {
					return err
				}
				switch s.outgoingCreatorRole {
				case OutgoingCreatorRemove:
					if err := groupRepo.RemoveMember(g.ID, userID); err != nil {
						return err
					}
				default:
					if err := groupRepo.UpdateMemberRole(g.ID, userID, models.RoleAdmin); err != nil {
						return err
					}
				}
				if err := groupRepo.AppendHistory(&models.GroupMemberHistory{
					GroupID:   g.ID,
					ActorID:   userID,
					SubjectID: action.TransferToUserID,
					Action:    models.HistoryTransferred,
					Detail:    fmt.Sprintf("ownership moved from user %d to user %d", userID, action.TransferToUserID),
				}); err != nil {
					return err
				}
				transfers = append(transfers, transferOutcome{groupID: g.ID, groupName: g.Name, toUserID: action.TransferToUserID})
			}
		}

		// Memberships in groups the user did not create stay behind as
		// history; the visibility predicate keeps the deleted account out
		// of member listings.
		return userRepo.MarkDeleted(userID)
	})
	if err != nil {
		return err
	}

	if err := s.staged.Clear(ctx, userID); err != nil {
		// The key has a TTL, a leftover entry expires on its own.
		log.Printf("DeleteAccount: failed to clear staged actions for user %d: %v", userID, err)
	}

	for _, d := range deletions {
		s.feed.Publish(models.FeedGroupDeleted, d.ID, userID, map[string]any{"group_name": d.Name})
	}
	for _, tr := range transfers {
		s.feed.Publish(models.FeedGroupTransferred, tr.groupID, tr.toUserID, map[string]any{
			"group_name":     tr.groupName,
			"previous_owner": userID,
		})
	}

	return nil
}

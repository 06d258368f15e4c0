package access

import (
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

func toInviteResponse(i *entity.Invite) dto.InviteResponse {
	return dto.InviteResponse{
		ID:        i.ID,
		Email:     i.Email,
		FullName:  i.FullName,
		Role:      i.Role.String(),
		Status:    i.Status,
		CreatedAt: i.CreatedAt,
	}
}

func toMeResponse(s *Subject) dto.MeResponse {
	out := dto.MeResponse{
		UserID:  s.UserID,
		Email:   s.Email,
		Role:    s.Role.String(),
		IsStaff: s.IsStaff,
		IsAdmin: s.IsAdmin,
	}
	if s.Profile != nil {
		out.Name = s.Profile.Name
		out.IsActive = s.Profile.IsActive
		out.CustomerID = s.Profile.CustomerID
	}
	return out
}

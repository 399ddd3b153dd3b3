package server_dto

type CreateServerRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	ImageURL string `json:"imageUrl" validate:"omitempty,min=1"`
}

type UpdateServerRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	ImageURL string `json:"imageUrl" validate:"omitempty,min=1"`
}

type CreateChannelRequest struct {
	Name string `json:"name" validate:"required,min=1"`
	Type string `json:"type" validate:"required,oneof=TEXT AUDIO VIDEO"`
}

type UpdateChannelRequest struct {
	Name string `json:"name" validate:"required,min=1"`
	Type string `json:"type" validate:"required,oneof=TEXT AUDIO VIDEO"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN MODERATOR GUEST"`
}

package inout

import "order-admin/model/admin_model"

type LoginReq struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required"`
	Captcha  string `json:"captcha"`
}

type LoginResp struct {
	AccessToken string              `json:"accessToken"`
	ExpiresIn   int64               `json:"expiresIn"`
	Account     admin_model.Account `json:"account"`
}

type AccountCreateReq struct {
	Username string  `json:"username" binding:"required,min=3,max=64"`
	Password string  `json:"password" binding:"required,min=6"`
	Role     string  `json:"role" binding:"required,oneof=ADMIN USER"`
	UserID   *string `json:"userId"`
}

package main

import (
	"tradegate/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.ProfileModel{},
		model.AuthenticationModel{},
		model.RefreshTokenModel{},
		model.ProductModel{},
		model.ProductImageModel{},
		model.ProductRequestModel{},
		model.CategoryModel{},
		model.AdminAccountModel{},
		model.SubAdminAccountModel{},
		model.ContactMessageModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}

// @title        Campus Events API
// @version      1.0
// @description  校園剩餘物資與活動公告的後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Bearer <token>"
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	_ "campus-events/docs" // 引入 swag 產出的 docs
)

var exitFunc = os.Exit

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("campus-events 結束")
		exitFunc(1)
	}
}

//go:build lambda

package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/gsarma/mailrender/internal/server"
)

var (
	ginLambda *ginadapter.GinLambda
	appLog    *zap.Logger
)

func init() {
	cfg, l, err := setup("")
	if err != nil {
		log.Fatalf("mailrender: %v", err)
	}
	appLog = l

	srv, err := server.New(cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to build server", zap.Error(err))
	}
	go func() {
		_ = srv.RunBackground(context.Background())
	}()
	ginLambda = ginadapter.New(srv.Handler())
}

func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if ce := appLog.Check(zap.DebugLevel, "Received Lambda request"); ce != nil {
		ce.Write(zap.String("path", req.Path), zap.String("request", spew.Sdump(req)))
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	defer appLog.Sync()
	lambda.Start(Handler)
}

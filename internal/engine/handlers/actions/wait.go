package actions

import (
	"fmt"
	"gridtactics/internal/engine/handlers"
)

func HandleWait(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{
		Msg:     fmt.Sprintf("%s ждет.", ctx.Actor.Name),
		MsgType: "INFO",
	}, nil
}

package actions

import (
	"fmt"
	"gridtactics/internal/engine/handlers"
)

func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{
		Msg:       fmt.Sprintf("%s входит на уровень %s.", ctx.Actor.Name, ctx.World.Name),
		MsgType:   "INFO",
		FullState: true,
	}, nil
}

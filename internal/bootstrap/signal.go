// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
	signalBuiltin "github.com/AccelByte/extend-countdown-challenge/pkg/signal/builtin"
	"github.com/sirupsen/logrus"
)

// InitSignalProcessor creates and initializes a signal processor with builtin event processors.
//
// ============================================================
// DEVELOPER: Register custom event processors here.
// ============================================================
// Event processors normalize tracker events into signals:
// - countdown ticks → countdown_tick signals
// - resolved challenges → challenge_resolved signals
// ============================================================
func InitSignalProcessor() *signal.Processor {
	processor := signal.NewProcessor()

	signalBuiltin.RegisterEventProcessors(processor.GetEventProcessorRegistry())

	logrus.Infof("initialized signal processor with %d event processors",
		processor.GetEventProcessorRegistry().Count())

	return processor
}

package logger

import (
	"go.uber.org/zap"
)

// New создает логгер. В режиме разработки сообщения выводятся в читаемом виде
// начиная с уровня debug, иначе в JSON начиная с уровня info.
func New(development bool) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	return l.Sugar(), nil
}

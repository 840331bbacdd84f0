package domain

// allowedTransitions явная и исчерпывающая таблица переходов статусов
// Любой переход, отсутствующий в таблице, недопустим
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
		StatusNoShow:    true,
	},
	StatusConfirmed: {
		StatusArrived:   true,
		StatusCancelled: true,
		StatusNoShow:    true,
	},
	StatusArrived: {
		StatusCompleted: true,
		StatusCancelled: true,
	},
	// Терминальные статусы: переходов нет
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// CanTransition проверяет допустимость перехода from -> to
func CanTransition(from, to BookingStatus) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// IsTerminal returns true if no transition leads out of the status
func (s BookingStatus) IsTerminal() bool {
	targets, ok := allowedTransitions[s]
	return ok && len(targets) == 0
}

// IsValidStatus проверяет, что статус известен таблице переходов
func IsValidStatus(s BookingStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// TransitionEffects side effects the engine applies for one transition.
// Reservation is acquired exactly once, at creation; every transition
// either leaves the ledger untouched or releases it.
type TransitionEffects struct {
	// ReleaseLedger освободить все записи бронирования в леджерах ресурсов
	ReleaseLedger bool

	// OccupancyDelta множитель изменения заполненности (умножается на HeadCount)
	// +1 прибытие гостей, -1 уход/отмена после прибытия, 0 без изменений
	OccupancyDelta int

	// RecordArrival зафиксировать фактическое время прибытия
	RecordArrival bool

	// RecordDeparture зафиксировать время ухода и итоговый чек
	RecordDeparture bool

	// MarkOccupied / MarkAvailable статус стола (занят гостями / свободен)
	MarkOccupied  bool
	MarkAvailable bool
}

// EffectsFor возвращает побочные эффекты перехода from -> to
// Переход должен быть предварительно проверен через CanTransition
func EffectsFor(from, to BookingStatus) TransitionEffects {
	switch to {
	case StatusArrived:
		return TransitionEffects{
			OccupancyDelta: 1,
			RecordArrival:  true,
			MarkOccupied:   true,
		}
	case StatusCompleted:
		return TransitionEffects{
			ReleaseLedger:   true,
			OccupancyDelta:  -1,
			RecordDeparture: true,
			MarkAvailable:   true,
		}
	case StatusCancelled:
		effects := TransitionEffects{ReleaseLedger: true}
		// Заполненность уменьшается только если гости уже прибыли
		if from == StatusArrived {
			effects.OccupancyDelta = -1
			effects.MarkAvailable = true
		}
		return effects
	case StatusNoShow:
		// Прибытия не было: леджер освобождается, заполненность не меняется
		return TransitionEffects{ReleaseLedger: true}
	default:
		// pending -> confirmed: резервация уже получена при создании
		return TransitionEffects{}
	}
}

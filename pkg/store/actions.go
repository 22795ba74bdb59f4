package store

import "github.com/bastiangx/choices/pkg/model"

// ActionType names a dispatchable action.
type ActionType string

const (
	ActionAddChoice       ActionType = "ADD_CHOICE"
	ActionRemoveChoice    ActionType = "REMOVE_CHOICE"
	ActionFilterChoices   ActionType = "FILTER_CHOICES"
	ActionActivateChoices ActionType = "ACTIVATE_CHOICES"
	ActionClearChoices    ActionType = "CLEAR_CHOICES"
	ActionAddGroup        ActionType = "ADD_GROUP"
	ActionAddItem         ActionType = "ADD_ITEM"
	ActionRemoveItem      ActionType = "REMOVE_ITEM"
	ActionHighlightItem   ActionType = "HIGHLIGHT_ITEM"
	ActionSetIsLoading    ActionType = "SET_IS_LOADING"
	ActionSetTxn          ActionType = "SET_TXN"
	ActionClearAll        ActionType = "CLEAR_ALL"
)

// Action is anything the store can dispatch. Types the reducers do not know are no-ops.
type Action interface {
	Type() ActionType
}

type AddChoiceAction struct{ Choice *model.Choice }

type RemoveChoiceAction struct{ Choice *model.Choice }

type FilterChoicesAction struct{ Results []model.Result }

type ActivateChoicesAction struct{ Active bool }

type ClearChoicesAction struct{}

type AddGroupAction struct{ Group *model.Group }

type AddItemAction struct{ Item *model.Choice }

type RemoveItemAction struct{ Item *model.Choice }

type HighlightItemAction struct {
	Item        *model.Choice
	Highlighted bool
}

// SetIsLoadingAction increments the loading depth when Loading is true and decrements it otherwise.
type SetIsLoadingAction struct{ Loading bool }

// SetTxnAction opens (increments) or closes (decrements) a transaction level.
type SetTxnAction struct{ Open bool }

// ClearAllAction empties every collection but keeps the loading and transaction depths.
type ClearAllAction struct{}

func (AddChoiceAction) Type() ActionType       { return ActionAddChoice }
func (RemoveChoiceAction) Type() ActionType    { return ActionRemoveChoice }
func (FilterChoicesAction) Type() ActionType   { return ActionFilterChoices }
func (ActivateChoicesAction) Type() ActionType { return ActionActivateChoices }
func (ClearChoicesAction) Type() ActionType    { return ActionClearChoices }
func (AddGroupAction) Type() ActionType        { return ActionAddGroup }
func (AddItemAction) Type() ActionType         { return ActionAddItem }
func (RemoveItemAction) Type() ActionType      { return ActionRemoveItem }
func (HighlightItemAction) Type() ActionType   { return ActionHighlightItem }
func (SetIsLoadingAction) Type() ActionType    { return ActionSetIsLoading }
func (SetTxnAction) Type() ActionType          { return ActionSetTxn }
func (ClearAllAction) Type() ActionType        { return ActionClearAll }

func AddChoice(choice *model.Choice) Action { return AddChoiceAction{Choice: choice} }

func RemoveChoice(choice *model.Choice) Action { return RemoveChoiceAction{Choice: choice} }

func FilterChoices(results []model.Result) Action { return FilterChoicesAction{Results: results} }

func ActivateChoices(active bool) Action { return ActivateChoicesAction{Active: active} }

func ClearChoices() Action { return ClearChoicesAction{} }

func AddGroup(group *model.Group) Action { return AddGroupAction{Group: group} }

func AddItem(item *model.Choice) Action { return AddItemAction{Item: item} }

func RemoveItem(item *model.Choice) Action { return RemoveItemAction{Item: item} }

func HighlightItem(item *model.Choice, highlighted bool) Action {
	return HighlightItemAction{Item: item, Highlighted: highlighted}
}

func SetIsLoading(loading bool) Action { return SetIsLoadingAction{Loading: loading} }

func SetTxn(open bool) Action { return SetTxnAction{Open: open} }

func ClearAll() Action { return ClearAllAction{} }

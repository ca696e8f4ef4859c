// Package graph implements the GraphQL layer: the type system, the
// authorization guards and the resolvers orchestrating storage and the
// event bus.
package graph

import "github.com/graphql-go/graphql"

// NewSchema builds the executable schema. Enum values, field names and
// nullability are the wire contract with the client and must not drift.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	boardVisibility := graphql.NewEnum(graphql.EnumConfig{
		Name: "BoardVisibility",
		Values: graphql.EnumValueConfigMap{
			"PRIVATE": &graphql.EnumValueConfig{Value: "PRIVATE"},
			"PUBLIC":  &graphql.EnumValueConfig{Value: "PUBLIC"},
		},
	})
	taskPriority := graphql.NewEnum(graphql.EnumConfig{
		Name: "TaskPriority",
		Values: graphql.EnumValueConfigMap{
			"LOW":    &graphql.EnumValueConfig{Value: "LOW"},
			"MEDIUM": &graphql.EnumValueConfig{Value: "MEDIUM"},
			"HIGH":   &graphql.EnumValueConfig{Value: "HIGH"},
		},
	})
	taskStatus := graphql.NewEnum(graphql.EnumConfig{
		Name: "TaskStatus",
		Values: graphql.EnumValueConfigMap{
			"TODO":  &graphql.EnumValueConfig{Value: "TODO"},
			"DOING": &graphql.EnumValueConfig{Value: "DOING"},
			"DONE":  &graphql.EnumValueConfig{Value: "DONE"},
		},
	})
	taskEventType := graphql.NewEnum(graphql.EnumConfig{
		Name: "TaskEventType",
		Values: graphql.EnumValueConfigMap{
			"CREATED": &graphql.EnumValueConfig{Value: "CREATED"},
			"UPDATED": &graphql.EnumValueConfig{Value: "UPDATED"},
			"DELETED": &graphql.EnumValueConfig{Value: "DELETED"},
			"MOVED":   &graphql.EnumValueConfig{Value: "MOVED"},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"role":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"status":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"avatarUrl": &graphql.Field{Type: graphql.String},
		},
	})
	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":  &graphql.Field{Type: graphql.NewNonNull(userType)},
		},
	})
	boardType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Board",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"ownerId":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"visibility":  &graphql.Field{Type: graphql.NewNonNull(boardVisibility)},
			"cover":       &graphql.Field{Type: graphql.String},
			"isArchived":  &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		},
	})
	listType := graphql.NewObject(graphql.ObjectConfig{
		Name: "List",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"boardId":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"order":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"color":      &graphql.Field{Type: graphql.String},
			"isArchived": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"wipLimit":   &graphql.Field{Type: graphql.Int},
		},
	})
	taskType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"listId":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"assigneeId":  &graphql.Field{Type: graphql.ID},
			"priority":    &graphql.Field{Type: graphql.NewNonNull(taskPriority)},
			"status":      &graphql.Field{Type: graphql.NewNonNull(taskStatus)},
			"dueDate":     &graphql.Field{Type: graphql.String},
			"tags":        &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
		},
	})
	taskEventOutput := graphql.NewObject(graphql.ObjectConfig{
		Name: "TaskEvent",
		Fields: graphql.Fields{
			"type": &graphql.Field{Type: graphql.NewNonNull(taskEventType)},
			"task": &graphql.Field{Type: graphql.NewNonNull(taskType)},
		},
	})

	registerInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "RegisterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"name":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"avatarUrl": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	loginInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "LoginInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
	updateProfileInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateProfileInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"avatarUrl": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	changePasswordInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ChangePasswordInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"oldPassword": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"newPassword": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
	createBoardInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateBoardInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"visibility":  &graphql.InputObjectFieldConfig{Type: boardVisibility, DefaultValue: "PRIVATE"},
			"cover":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	updateBoardInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateBoardInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":          &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"visibility":  &graphql.InputObjectFieldConfig{Type: boardVisibility},
			"cover":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"isArchived":  &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})
	createListInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateListInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"boardId":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"title":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"order":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"color":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"wipLimit": &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})
	updateListInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateListInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"title":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"order":      &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"color":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"wipLimit":   &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"isArchived": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})
	createTaskInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateTaskInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"listId":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"assigneeId":  &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"priority":    &graphql.InputObjectFieldConfig{Type: taskPriority, DefaultValue: "MEDIUM"},
			"status":      &graphql.InputObjectFieldConfig{Type: taskStatus, DefaultValue: "TODO"},
			"dueDate":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"tags":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})
	updateTaskInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateTaskInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":          &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"assigneeId":  &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"priority":    &graphql.InputObjectFieldConfig{Type: taskPriority},
			"status":      &graphql.InputObjectFieldConfig{Type: taskStatus},
			"dueDate":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"tags":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})
	moveTaskInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "MoveTaskInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"taskId":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"toListId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
	})
	setUserRoleInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "SetUserRoleInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"userId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"role":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
	setUserStatusInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "SetUserStatusInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"userId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"status": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: r.hello,
			},
			"me": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Resolve: r.me,
			},
			"boards": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(boardType))),
				Resolve: r.boards,
			},
			"board": &graphql.Field{
				Type:    boardType,
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.board,
			},
			"list": &graphql.Field{
				Type:    listType,
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.list,
			},
			"lists": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(listType))),
				Args:    graphql.FieldConfigArgument{"boardId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.lists,
			},
			"tasks": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(taskType))),
				Args:    graphql.FieldConfigArgument{"listId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.tasks,
			},
			"task": &graphql.Field{
				Type:    taskType,
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.task,
			},
			"users": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: r.users,
			},
			"user": &graphql.Field{
				Type:    userType,
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.user,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type:    graphql.NewNonNull(authPayloadType),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(registerInput)}},
				Resolve: r.register,
			},
			"login": &graphql.Field{
				Type:    graphql.NewNonNull(authPayloadType),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(loginInput)}},
				Resolve: r.login,
			},
			"updateProfile": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateProfileInput)}},
				Resolve: r.updateProfile,
			},
			"changePassword": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(changePasswordInput)}},
				Resolve: r.changePassword,
			},
			"createBoard": &graphql.Field{
				Type:    graphql.NewNonNull(boardType),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createBoardInput)}},
				Resolve: r.createBoard,
			},
			"updateBoard": &graphql.Field{
				Type:    graphql.NewNonNull(boardType),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateBoardInput)}},
				Resolve: r.updateBoard,
			},
			"deleteBoard": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.deleteBoard,
			},
			"createList": &graphql.Field{
				Type:    graphql.NewNonNull(listType),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createListInput)}},
				Resolve: r.createList,
			},
			"updateList": &graphql.Field{
				Type:    graphql.NewNonNull(listType),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateListInput)}},
				Resolve: r.updateList,
			},
			"deleteList": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.deleteList,
			},
			"createTask": &graphql.Field{
				Type:    graphql.NewNonNull(taskType),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createTaskInput)}},
				Resolve: r.createTask,
			},
			"updateTask": &graphql.Field{
				Type:    graphql.NewNonNull(taskType),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateTaskInput)}},
				Resolve: r.updateTask,
			},
			"updateTaskStatus": &graphql.Field{
				Type: graphql.NewNonNull(taskType),
				Args: graphql.FieldConfigArgument{
					"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(taskStatus)},
				},
				Resolve: r.updateTaskStatus,
			},
			"moveTask": &graphql.Field{
				Type:    graphql.NewNonNull(taskType),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(moveTaskInput)}},
				Resolve: r.moveTask,
			},
			"deleteTask": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.deleteTask,
			},
			"setUserRole": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(setUserRoleInput)}},
				Resolve: r.setUserRole,
			},
			"setUserStatus": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(setUserStatusInput)}},
				Resolve: r.setUserStatus,
			},
		},
	})

	subscriptionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Subscription",
		Fields: graphql.Fields{
			"taskUpdated": &graphql.Field{
				Type:      graphql.NewNonNull(taskEventOutput),
				Args:      graphql.FieldConfigArgument{"boardId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Subscribe: r.subscribeTaskUpdated,
				Resolve:   r.resolveTaskEvent,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:        queryType,
		Mutation:     mutationType,
		Subscription: subscriptionType,
	})
}

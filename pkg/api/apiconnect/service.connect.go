// Package apiconnect binds the fundkeeper document service to Connect.
//
// The service has no protobuf schema; every handler and client is set up with
// api.Codec so messages travel as plain JSON.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/fundkeeper/pkg/api"
)

// DocumentServiceName is the fully-qualified name of the DocumentService service.
const DocumentServiceName = "fundkeeper.v1.DocumentService"

// Procedure paths of the DocumentService RPCs.
const (
	DocumentServiceGetUserProcedure           = "/fundkeeper.v1.DocumentService/GetUser"
	DocumentServiceSetUserProcedure           = "/fundkeeper.v1.DocumentService/SetUser"
	DocumentServiceUpdateUserStatusProcedure  = "/fundkeeper.v1.DocumentService/UpdateUserStatus"
	DocumentServiceListUsersProcedure         = "/fundkeeper.v1.DocumentService/ListUsers"
	DocumentServiceCreateContributorProcedure = "/fundkeeper.v1.DocumentService/CreateContributor"
	DocumentServiceUpdateContributorProcedure = "/fundkeeper.v1.DocumentService/UpdateContributor"
	DocumentServiceDeleteContributorProcedure = "/fundkeeper.v1.DocumentService/DeleteContributor"
	DocumentServiceCreateExpenseProcedure     = "/fundkeeper.v1.DocumentService/CreateExpense"
	DocumentServiceUpdateExpenseProcedure     = "/fundkeeper.v1.DocumentService/UpdateExpense"
	DocumentServiceDeleteExpenseProcedure     = "/fundkeeper.v1.DocumentService/DeleteExpense"
	DocumentServiceAppendLogProcedure         = "/fundkeeper.v1.DocumentService/AppendLog"
	DocumentServiceSubscribeProcedure         = "/fundkeeper.v1.DocumentService/Subscribe"
)

// DocumentServiceClient is a client for the fundkeeper.v1.DocumentService service.
type DocumentServiceClient interface {
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	SetUser(context.Context, *connect.Request[api.SetUserRequest]) (*connect.Response[api.SetUserResponse], error)
	UpdateUserStatus(context.Context, *connect.Request[api.UpdateUserStatusRequest]) (*connect.Response[api.UpdateUserStatusResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	CreateContributor(context.Context, *connect.Request[api.CreateContributorRequest]) (*connect.Response[api.CreateContributorResponse], error)
	UpdateContributor(context.Context, *connect.Request[api.UpdateContributorRequest]) (*connect.Response[api.UpdateContributorResponse], error)
	DeleteContributor(context.Context, *connect.Request[api.DeleteContributorRequest]) (*connect.Response[api.DeleteContributorResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	AppendLog(context.Context, *connect.Request[api.AppendLogRequest]) (*connect.Response[api.AppendLogResponse], error)
	Subscribe(context.Context, *connect.Request[api.SubscribeRequest]) (*connect.ServerStreamForClient[api.SubscribeResponse], error)
}

// NewDocumentServiceClient constructs a client for the
// fundkeeper.v1.DocumentService service. baseURL is the server root, e.g.
// http://localhost:8080.
func NewDocumentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DocumentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &documentServiceClient{
		getUser: connect.NewClient[api.GetUserRequest, api.GetUserResponse](
			httpClient,
			baseURL+DocumentServiceGetUserProcedure,
			opts...,
		),
		setUser: connect.NewClient[api.SetUserRequest, api.SetUserResponse](
			httpClient,
			baseURL+DocumentServiceSetUserProcedure,
			opts...,
		),
		updateUserStatus: connect.NewClient[api.UpdateUserStatusRequest, api.UpdateUserStatusResponse](
			httpClient,
			baseURL+DocumentServiceUpdateUserStatusProcedure,
			opts...,
		),
		listUsers: connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](
			httpClient,
			baseURL+DocumentServiceListUsersProcedure,
			opts...,
		),
		createContributor: connect.NewClient[api.CreateContributorRequest, api.CreateContributorResponse](
			httpClient,
			baseURL+DocumentServiceCreateContributorProcedure,
			opts...,
		),
		updateContributor: connect.NewClient[api.UpdateContributorRequest, api.UpdateContributorResponse](
			httpClient,
			baseURL+DocumentServiceUpdateContributorProcedure,
			opts...,
		),
		deleteContributor: connect.NewClient[api.DeleteContributorRequest, api.DeleteContributorResponse](
			httpClient,
			baseURL+DocumentServiceDeleteContributorProcedure,
			opts...,
		),
		createExpense: connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](
			httpClient,
			baseURL+DocumentServiceCreateExpenseProcedure,
			opts...,
		),
		updateExpense: connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](
			httpClient,
			baseURL+DocumentServiceUpdateExpenseProcedure,
			opts...,
		),
		deleteExpense: connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](
			httpClient,
			baseURL+DocumentServiceDeleteExpenseProcedure,
			opts...,
		),
		appendLog: connect.NewClient[api.AppendLogRequest, api.AppendLogResponse](
			httpClient,
			baseURL+DocumentServiceAppendLogProcedure,
			opts...,
		),
		subscribe: connect.NewClient[api.SubscribeRequest, api.SubscribeResponse](
			httpClient,
			baseURL+DocumentServiceSubscribeProcedure,
			opts...,
		),
	}
}

type documentServiceClient struct {
	getUser           *connect.Client[api.GetUserRequest, api.GetUserResponse]
	setUser           *connect.Client[api.SetUserRequest, api.SetUserResponse]
	updateUserStatus  *connect.Client[api.UpdateUserStatusRequest, api.UpdateUserStatusResponse]
	listUsers         *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
	createContributor *connect.Client[api.CreateContributorRequest, api.CreateContributorResponse]
	updateContributor *connect.Client[api.UpdateContributorRequest, api.UpdateContributorResponse]
	deleteContributor *connect.Client[api.DeleteContributorRequest, api.DeleteContributorResponse]
	createExpense     *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	updateExpense     *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	deleteExpense     *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	appendLog         *connect.Client[api.AppendLogRequest, api.AppendLogResponse]
	subscribe         *connect.Client[api.SubscribeRequest, api.SubscribeResponse]
}

func (c *documentServiceClient) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *documentServiceClient) SetUser(ctx context.Context, req *connect.Request[api.SetUserRequest]) (*connect.Response[api.SetUserResponse], error) {
	return c.setUser.CallUnary(ctx, req)
}

func (c *documentServiceClient) UpdateUserStatus(ctx context.Context, req *connect.Request[api.UpdateUserStatusRequest]) (*connect.Response[api.UpdateUserStatusResponse], error) {
	return c.updateUserStatus.CallUnary(ctx, req)
}

func (c *documentServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

func (c *documentServiceClient) CreateContributor(ctx context.Context, req *connect.Request[api.CreateContributorRequest]) (*connect.Response[api.CreateContributorResponse], error) {
	return c.createContributor.CallUnary(ctx, req)
}

func (c *documentServiceClient) UpdateContributor(ctx context.Context, req *connect.Request[api.UpdateContributorRequest]) (*connect.Response[api.UpdateContributorResponse], error) {
	return c.updateContributor.CallUnary(ctx, req)
}

func (c *documentServiceClient) DeleteContributor(ctx context.Context, req *connect.Request[api.DeleteContributorRequest]) (*connect.Response[api.DeleteContributorResponse], error) {
	return c.deleteContributor.CallUnary(ctx, req)
}

func (c *documentServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *documentServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *documentServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *documentServiceClient) AppendLog(ctx context.Context, req *connect.Request[api.AppendLogRequest]) (*connect.Response[api.AppendLogResponse], error) {
	return c.appendLog.CallUnary(ctx, req)
}

func (c *documentServiceClient) Subscribe(ctx context.Context, req *connect.Request[api.SubscribeRequest]) (*connect.ServerStreamForClient[api.SubscribeResponse], error) {
	return c.subscribe.CallServerStream(ctx, req)
}

// DocumentServiceHandler is implemented by the fundkeeper.v1.DocumentService server.
type DocumentServiceHandler interface {
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	SetUser(context.Context, *connect.Request[api.SetUserRequest]) (*connect.Response[api.SetUserResponse], error)
	UpdateUserStatus(context.Context, *connect.Request[api.UpdateUserStatusRequest]) (*connect.Response[api.UpdateUserStatusResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	CreateContributor(context.Context, *connect.Request[api.CreateContributorRequest]) (*connect.Response[api.CreateContributorResponse], error)
	UpdateContributor(context.Context, *connect.Request[api.UpdateContributorRequest]) (*connect.Response[api.UpdateContributorResponse], error)
	DeleteContributor(context.Context, *connect.Request[api.DeleteContributorRequest]) (*connect.Response[api.DeleteContributorResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	AppendLog(context.Context, *connect.Request[api.AppendLogRequest]) (*connect.Response[api.AppendLogResponse], error)
	Subscribe(context.Context, *connect.Request[api.SubscribeRequest], *connect.ServerStream[api.SubscribeResponse]) error
}

// NewDocumentServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewDocumentServiceHandler(svc DocumentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	getUserHandler := connect.NewUnaryHandler(
		DocumentServiceGetUserProcedure,
		svc.GetUser,
		opts...,
	)
	setUserHandler := connect.NewUnaryHandler(
		DocumentServiceSetUserProcedure,
		svc.SetUser,
		opts...,
	)
	updateUserStatusHandler := connect.NewUnaryHandler(
		DocumentServiceUpdateUserStatusProcedure,
		svc.UpdateUserStatus,
		opts...,
	)
	listUsersHandler := connect.NewUnaryHandler(
		DocumentServiceListUsersProcedure,
		svc.ListUsers,
		opts...,
	)
	createContributorHandler := connect.NewUnaryHandler(
		DocumentServiceCreateContributorProcedure,
		svc.CreateContributor,
		opts...,
	)
	updateContributorHandler := connect.NewUnaryHandler(
		DocumentServiceUpdateContributorProcedure,
		svc.UpdateContributor,
		opts...,
	)
	deleteContributorHandler := connect.NewUnaryHandler(
		DocumentServiceDeleteContributorProcedure,
		svc.DeleteContributor,
		opts...,
	)
	createExpenseHandler := connect.NewUnaryHandler(
		DocumentServiceCreateExpenseProcedure,
		svc.CreateExpense,
		opts...,
	)
	updateExpenseHandler := connect.NewUnaryHandler(
		DocumentServiceUpdateExpenseProcedure,
		svc.UpdateExpense,
		opts...,
	)
	deleteExpenseHandler := connect.NewUnaryHandler(
		DocumentServiceDeleteExpenseProcedure,
		svc.DeleteExpense,
		opts...,
	)
	appendLogHandler := connect.NewUnaryHandler(
		DocumentServiceAppendLogProcedure,
		svc.AppendLog,
		opts...,
	)
	subscribeHandler := connect.NewServerStreamHandler(
		DocumentServiceSubscribeProcedure,
		svc.Subscribe,
		opts...,
	)
	return "/" + DocumentServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DocumentServiceGetUserProcedure:
			getUserHandler.ServeHTTP(w, r)
		case DocumentServiceSetUserProcedure:
			setUserHandler.ServeHTTP(w, r)
		case DocumentServiceUpdateUserStatusProcedure:
			updateUserStatusHandler.ServeHTTP(w, r)
		case DocumentServiceListUsersProcedure:
			listUsersHandler.ServeHTTP(w, r)
		case DocumentServiceCreateContributorProcedure:
			createContributorHandler.ServeHTTP(w, r)
		case DocumentServiceUpdateContributorProcedure:
			updateContributorHandler.ServeHTTP(w, r)
		case DocumentServiceDeleteContributorProcedure:
			deleteContributorHandler.ServeHTTP(w, r)
		case DocumentServiceCreateExpenseProcedure:
			createExpenseHandler.ServeHTTP(w, r)
		case DocumentServiceUpdateExpenseProcedure:
			updateExpenseHandler.ServeHTTP(w, r)
		case DocumentServiceDeleteExpenseProcedure:
			deleteExpenseHandler.ServeHTTP(w, r)
		case DocumentServiceAppendLogProcedure:
			appendLogHandler.ServeHTTP(w, r)
		case DocumentServiceSubscribeProcedure:
			subscribeHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

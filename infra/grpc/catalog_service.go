package grpc

import (
	"catalog/app/catalog"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const CatalogServiceName = "catalog.v1.CatalogService"

// CatalogServiceServer exposes the read side of the catalog to internal
// callers. Responses carry the same JSON shapes as the HTTP API, wrapped in
// google.protobuf.Struct.
type CatalogServiceServer interface {
	GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error)
	ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetCategoryStats(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProduct",
			Handler: unaryHandler("GetProduct", func(srv CatalogServiceServer, ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
				return srv.GetProduct(ctx, req)
			}),
		},
		{
			MethodName: "ListProducts",
			Handler: unaryHandler("ListProducts", func(srv CatalogServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.ListProducts(ctx, req)
			}),
		},
		{
			MethodName: "GetCategoryStats",
			Handler: unaryHandler("GetCategoryStats", func(srv CatalogServiceServer, ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
				return srv.GetCategoryStats(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/catalog.proto",
}

func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&CatalogServiceDesc, srv)
}

// unaryHandler builds the method handler protoc-gen-go-grpc would generate
// for a unary call with request type Req.
func unaryHandler[Req any, PReq interface {
	*Req
}](method string, call func(CatalogServiceServer, context.Context, PReq) (*structpb.Struct, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + CatalogServiceName + "/" + method

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CatalogServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CatalogServiceServer), ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type CatalogService struct {
	query *catalog.QueryService
}

var _ CatalogServiceServer = (*CatalogService)(nil)

func NewCatalogService(query *catalog.QueryService) *CatalogService {
	return &CatalogService{
		query: query,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "product id is required")
	}

	product, err := s.query.GetProduct(ctx, req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(product)
}

// ListProducts reads the optional numeric fields page, page_size and
// category_id from req.
func (s *CatalogService) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	page, err := intField(req, "page", 1)
	if err != nil {
		return nil, err
	}
	pageSize, err := intField(req, "page_size", catalog.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	id, err := intField(req, "category_id", 0)
	if err != nil {
		return nil, err
	}

	var categoryID *int64
	if id != 0 {
		cid := int64(id)
		categoryID = &cid
	}

	products, err := s.query.GetProducts(ctx, page, pageSize, categoryID)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(products)
}

func (s *CatalogService) GetCategoryStats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	stats, err := s.query.GetCategoryStats(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]any{"categories": stats})
}

// intField reads an optional whole-number field. Non-numeric values fall back;
// fractional or out-of-range numbers are rejected.
func intField(req *structpb.Struct, name string, fallback int) (int, error) {
	value, ok := req.GetFields()[name]
	if !ok {
		return fallback, nil
	}
	if _, isNumber := value.GetKind().(*structpb.Value_NumberValue); !isNumber {
		return fallback, nil
	}
	n := value.GetNumberValue()
	if n != math.Trunc(n) || n < math.MinInt || n >= math.MaxInt {
		return 0, status.Error(codes.InvalidArgument, fmt.Sprintf("%s must be a whole number", name))
	}
	return int(n), nil
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}

func mapError(err error) error {
	var catalogErr *catalog.Error
	if !errors.As(err, &catalogErr) {
		zap.L().Error("Catalog query failed", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}

	switch catalogErr.Kind {
	case catalog.KindNotFound:
		return status.Error(codes.NotFound, catalogErr.Message)
	case catalog.KindValidation:
		return status.Error(codes.InvalidArgument, catalogErr.Message)
	case catalog.KindConflict:
		return status.Error(codes.FailedPrecondition, catalogErr.Message)
	case catalog.KindForbidden:
		return status.Error(codes.PermissionDenied, catalogErr.Message)
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
